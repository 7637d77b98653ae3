package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/openmuseum/inventory/internal/domain"
	"github.com/openmuseum/inventory/internal/repository/sqlite/migrations"
)

// DB wraps the SQLite connection and hands out repositories.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// database-is-locked errors under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// AvailableImages returns the available-pool repository.
func (db *DB) AvailableImages() domain.AvailableImageRepository {
	return &availableImageRepo{db: db.SqlDB}
}

// AttachedImages returns the attached-image repository.
func (db *DB) AttachedImages() domain.AttachedImageRepository {
	return &attachedImageRepo{db: db.SqlDB}
}

// Exchange returns the transactional available/attached row exchanger.
func (db *DB) Exchange() domain.AssetExchanger {
	return &assetExchange{db: db.SqlDB}
}

// Items returns the item repository.
func (db *DB) Items() domain.ItemRepository {
	return &itemRepo{db: db.SqlDB}
}

// Collections returns the collection repository.
func (db *DB) Collections() domain.CollectionRepository {
	return &collectionRepo{db: db.SqlDB}
}

// Partners returns the partner repository.
func (db *DB) Partners() domain.PartnerRepository {
	return &partnerRepo{db: db.SqlDB}
}

// ItemDetails returns the item-detail repository.
func (db *DB) ItemDetails() domain.ItemDetailRepository {
	return &itemDetailRepo{db: db.SqlDB}
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint
// violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return containsString(msg, "UNIQUE constraint failed") ||
		containsString(msg, "unique constraint")
}

func containsString(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
