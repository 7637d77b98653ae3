package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openmuseum/inventory/internal/domain"
)

// attachedImageRepo implements domain.AttachedImageRepository using SQLite.
type attachedImageRepo struct {
	db *sql.DB
}

func (r *attachedImageRepo) GetByID(ctx context.Context, id int64) (*domain.AttachedImage, error) {
	img := &domain.AttachedImage{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_type, owner_id, storage_path, filename, content_type, size, caption, display_order, created_at
		 FROM attached_images WHERE id = ?`, id,
	).Scan(&img.ID, &img.Owner.Type, &img.Owner.ID, &img.StoragePath, &img.Filename,
		&img.ContentType, &img.Size, &img.Caption, &img.DisplayOrder, &img.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attached image: %w", err)
	}
	return img, nil
}

func (r *attachedImageRepo) SiblingsOf(ctx context.Context, owner domain.Owner) ([]domain.AttachedImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_type, owner_id, storage_path, filename, content_type, size, caption, display_order, created_at
		 FROM attached_images WHERE owner_type = ? AND owner_id = ?
		 ORDER BY display_order, created_at, id`, owner.Type, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list attached images: %w", err)
	}
	defer rows.Close()

	var images []domain.AttachedImage
	for rows.Next() {
		var img domain.AttachedImage
		if err := rows.Scan(&img.ID, &img.Owner.Type, &img.Owner.ID, &img.StoragePath, &img.Filename,
			&img.ContentType, &img.Size, &img.Caption, &img.DisplayOrder, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attached image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *attachedImageRepo) MaxOrder(ctx context.Context, owner domain.Owner) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(display_order), -1) FROM attached_images
		 WHERE owner_type = ? AND owner_id = ?`, owner.Type, owner.ID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max display order: %w", err)
	}
	return max, nil
}

func (r *attachedImageRepo) UpdateOrders(ctx context.Context, updates []domain.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		result, err := tx.ExecContext(ctx,
			"UPDATE attached_images SET display_order = ? WHERE id = ?",
			u.DisplayOrder, u.ID)
		if err != nil {
			return fmt.Errorf("update display order: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if rows == 0 {
			return domain.ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *attachedImageRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM attached_images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete attached image: %w", err)
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
