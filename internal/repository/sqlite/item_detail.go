package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openmuseum/inventory/internal/domain"
)

// itemDetailRepo implements domain.ItemDetailRepository using SQLite.
type itemDetailRepo struct {
	db *sql.DB
}

func (r *itemDetailRepo) Create(ctx context.Context, d *domain.ItemDetail) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO item_details (item_id, label, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ItemID, d.Label, d.Description, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert item detail: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	d.ID = id
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

func (r *itemDetailRepo) GetByID(ctx context.Context, id int64) (*domain.ItemDetail, error) {
	d := &domain.ItemDetail{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, item_id, label, description, created_at, updated_at
		 FROM item_details WHERE id = ?`, id,
	).Scan(&d.ID, &d.ItemID, &d.Label, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get item detail: %w", err)
	}
	return d, nil
}

func (r *itemDetailRepo) ListByItem(ctx context.Context, itemID int64) ([]domain.ItemDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item_id, label, description, created_at, updated_at
		 FROM item_details WHERE item_id = ? ORDER BY id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item details: %w", err)
	}
	defer rows.Close()

	var details []domain.ItemDetail
	for rows.Next() {
		var d domain.ItemDetail
		if err := rows.Scan(&d.ID, &d.ItemID, &d.Label, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *itemDetailRepo) Update(ctx context.Context, d *domain.ItemDetail) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE item_details SET label = ?, description = ?, updated_at = ? WHERE id = ?`,
		d.Label, d.Description, now, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update item detail: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	d.UpdatedAt = now
	return nil
}

func (r *itemDetailRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM item_details WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item detail: %w", err)
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
