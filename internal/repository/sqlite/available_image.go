package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openmuseum/inventory/internal/domain"
)

// availableImageRepo implements domain.AvailableImageRepository using SQLite.
type availableImageRepo struct {
	db *sql.DB
}

func (r *availableImageRepo) Create(ctx context.Context, img *domain.AvailableImage) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
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

	img.ID = id
	img.CreatedAt = now
	return nil
}

func (r *availableImageRepo) GetByID(ctx context.Context, id int64) (*domain.AvailableImage, error) {
	img := &domain.AvailableImage{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, storage_path, filename, content_type, size, comment, created_at
		 FROM available_images WHERE id = ?`, id,
	).Scan(&img.ID, &img.StoragePath, &img.Filename, &img.ContentType,
		&img.Size, &img.Comment, &img.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get available image: %w", err)
	}
	return img, nil
}

func (r *availableImageRepo) List(ctx context.Context) ([]domain.AvailableImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, storage_path, filename, content_type, size, comment, created_at
		 FROM available_images ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list available images: %w", err)
	}
	defer rows.Close()

	var images []domain.AvailableImage
	for rows.Next() {
		var img domain.AvailableImage
		if err := rows.Scan(&img.ID, &img.StoragePath, &img.Filename, &img.ContentType,
			&img.Size, &img.Comment, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan available image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *availableImageRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM available_images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete available image: %w", err)
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
