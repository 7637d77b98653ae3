package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openmuseum/inventory/internal/domain"
	"github.com/openmuseum/inventory/internal/storage"
)

// Attach moves an available image into exclusive ownership by the given
// catalog entity. The file is relocated first, then the available row is
// exchanged for an attached row in one transaction; if the exchange fails
// the file move is compensated so file and metadata never diverge.
func (s *AssetService) Attach(ctx context.Context, availableID int64, owner domain.Owner) (*domain.AttachedImage, error) {
	if _, err := domain.ParseOwnerType(string(owner.Type)); err != nil {
		return nil, err
	}
	exists, err := s.owners.OwnerExists(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: owner %s", domain.ErrNotFound, owner)
	}

	release := s.locks.acquire(owner)
	defer release()

	// Consuming the available row must not interleave with its hard
	// delete; see poolMu.
	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	avail, err := s.available.GetByID(ctx, availableID)
	if err != nil {
		return nil, fmt.Errorf("get available image: %w", err)
	}

	// A missing file means storage and database drifted out of band. The
	// row stays queryable for operator inspection.
	if !s.store.Exists(ctx, avail.StoragePath) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, avail.StoragePath)
	}

	dst := storage.AttachedPath(uuid.NewString() + "-" + avail.Filename)

	if err := s.store.Move(ctx, avail.StoragePath, dst); err != nil {
		return nil, fmt.Errorf("move to attached: %w", err)
	}

	img := &domain.AttachedImage{
		Owner:       owner,
		StoragePath: dst,
		Filename:    avail.Filename,
		ContentType: avail.ContentType,
		Size:        avail.Size,
	}
	if err := s.exchange.PromoteToAttached(ctx, avail.ID, img); err != nil {
		// Compensate: put the file back where the surviving row points.
		// The move must run even when the request context is already
		// canceled, otherwise the cancellation itself causes divergence.
		if mvErr := s.store.Move(context.WithoutCancel(ctx), dst, avail.StoragePath); mvErr != nil {
			slog.Error("attach compensation failed", "src", dst, "dst", avail.StoragePath, "error", mvErr)
			return nil, fmt.Errorf("%w: attach of image %d: %v", domain.ErrStoreDiverged, availableID, err)
		}
		return nil, fmt.Errorf("exchange rows: %w", err)
	}

	slog.Info("image attached", "available_id", availableID, "attached_id", img.ID,
		"owner", img.Owner.String(), "display_order", img.DisplayOrder)
	return img, nil
}
