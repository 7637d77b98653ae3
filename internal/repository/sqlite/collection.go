package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openmuseum/inventory/internal/domain"
)

// collectionRepo implements domain.CollectionRepository using SQLite.
type collectionRepo struct {
	db *sql.DB
}

func (r *collectionRepo) Create(ctx context.Context, c *domain.Collection) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO collections (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.Name, c.Description, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (r *collectionRepo) GetByID(ctx context.Context, id int64) (*domain.Collection, error) {
	c := &domain.Collection{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM collections WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

func (r *collectionRepo) List(ctx context.Context) ([]domain.Collection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var collections []domain.Collection
	for rows.Next() {
		var c domain.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *collectionRepo) Update(ctx context.Context, c *domain.Collection) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE collections SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Description, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	c.UpdatedAt = now
	return nil
}

func (r *collectionRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
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
