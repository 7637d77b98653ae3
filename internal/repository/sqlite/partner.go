package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openmuseum/inventory/internal/domain"
)

// partnerRepo implements domain.PartnerRepository using SQLite.
type partnerRepo struct {
	db *sql.DB
}

func (r *partnerRepo) Create(ctx context.Context, p *domain.Partner) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO partners (name, website, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		p.Name, p.Website, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert partner: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *partnerRepo) GetByID(ctx context.Context, id int64) (*domain.Partner, error) {
	p := &domain.Partner{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, website, created_at, updated_at FROM partners WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Website, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

func (r *partnerRepo) List(ctx context.Context) ([]domain.Partner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, website, created_at, updated_at FROM partners ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []domain.Partner
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Website, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (r *partnerRepo) Update(ctx context.Context, p *domain.Partner) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE partners SET name = ?, website = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Website, now, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	p.UpdatedAt = now
	return nil
}

func (r *partnerRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM partners WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete partner: %w", err)
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
