package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openmuseum/inventory/internal/domain"
)

// itemRepo implements domain.ItemRepository using SQLite.
type itemRepo struct {
	db *sql.DB
}

func (r *itemRepo) Create(ctx context.Context, item *domain.Item) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO items (inventory_number, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		item.InventoryNumber, item.Name, item.Description, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: inventory number %q", domain.ErrInvalidInput, item.InventoryNumber)
		}
		return fmt.Errorf("insert item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	item := &domain.Item{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, inventory_number, name, description, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.InventoryNumber, &item.Name, &item.Description,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (r *itemRepo) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, inventory_number, name, description, created_at, updated_at
		 FROM items ORDER BY inventory_number`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.InventoryNumber, &item.Name, &item.Description,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepo) Update(ctx context.Context, item *domain.Item) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET inventory_number = ?, name = ?, description = ?, updated_at = ? WHERE id = ?`,
		item.InventoryNumber, item.Name, item.Description, now, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	item.UpdatedAt = now
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
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
