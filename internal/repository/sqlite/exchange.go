package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openmuseum/inventory/internal/domain"
)

// assetExchange implements domain.AssetExchanger using SQLite. Both
// transitions run as one transaction so no observable state has a file
// referenced by both tables, or by neither.
type assetExchange struct {
	db *sql.DB
}

func (e *assetExchange) PromoteToAttached(ctx context.Context, availableID int64, img *domain.AttachedImage) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The display order is computed inside the transaction so two attaches
	// to the same owner can never read the same max.
	var max int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(display_order), -1) FROM attached_images
		 WHERE owner_type = ? AND owner_id = ?`, img.Owner.Type, img.Owner.ID,
	).Scan(&max)
	if err != nil {
		return fmt.Errorf("max display order: %w", err)
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO attached_images (owner_type, owner_id, storage_path, filename, content_type, size, caption, display_order, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.Owner.Type, img.Owner.ID, img.StoragePath, img.Filename,
		img.ContentType, img.Size, img.Caption, max+1, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicatePath
		}
		return fmt.Errorf("insert attached image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	if err := deleteRow(ctx, tx, "available_images", availableID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	img.ID = id
	img.DisplayOrder = max + 1
	img.CreatedAt = now
	return nil
}

func (e *assetExchange) DemoteToAvailable(ctx context.Context, attachedID int64, img *domain.AvailableImage) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO available_images (storage_path, filename, content_type, size, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		img.StoragePath, img.Filename, img.ContentType, img.Size, img.Comment, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicatePath
		}
		return fmt.Errorf("insert available image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	if err := deleteRow(ctx, tx, "attached_images", attachedID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	img.ID = id
	img.CreatedAt = now
	return nil
}

// deleteRow removes one row by id and maps a zero rowcount to ErrNotFound,
// which is what makes a second attach of the same available id fail.
func deleteRow(ctx context.Context, tx *sql.Tx, table string, id int64) error {
	result, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
