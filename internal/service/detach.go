package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openmuseum/inventory/internal/domain"
	"github.com/openmuseum/inventory/internal/storage"
)

// Detach returns an attached image to the available pool. When expected is
// non-nil the image must belong to that owner, which guards against
// misrouted detach requests. After the exchange the former owner's
// remaining siblings are renumbered so no order gap is left behind.
func (s *AssetService) Detach(ctx context.Context, attachedID int64, expected *domain.Owner, comment string) (*domain.AvailableImage, error) {
	img, err := s.attached.GetByID(ctx, attachedID)
	if err != nil {
		return nil, fmt.Errorf("get attached image: %w", err)
	}
	if expected != nil && *expected != img.Owner {
		return nil, fmt.Errorf("%w: image %d belongs to %s", domain.ErrOwnershipMismatch, attachedID, img.Owner)
	}

	release := s.locks.acquire(img.Owner)
	defer release()

	// Re-read under the lock; a concurrent detach may have won the race.
	img, err = s.attached.GetByID(ctx, attachedID)
	if err != nil {
		return nil, fmt.Errorf("get attached image: %w", err)
	}

	if !s.store.Exists(ctx, img.StoragePath) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, img.StoragePath)
	}

	if comment == "" {
		comment = fmt.Sprintf("detached from %s", img.Owner)
	}

	dst := storage.AvailablePath(uuid.NewString() + "-" + img.Filename)

	if err := s.store.Move(ctx, img.StoragePath, dst); err != nil {
		return nil, fmt.Errorf("move to available: %w", err)
	}

	avail := &domain.AvailableImage{
		StoragePath: dst,
		Filename:    img.Filename,
		ContentType: img.ContentType,
		Size:        img.Size,
		Comment:     comment,
	}
	if err := s.exchange.DemoteToAvailable(ctx, img.ID, avail); err != nil {
		// Run the compensating move even under a canceled request context.
		if mvErr := s.store.Move(context.WithoutCancel(ctx), dst, img.StoragePath); mvErr != nil {
			slog.Error("detach compensation failed", "src", dst, "dst", img.StoragePath, "error", mvErr)
			return nil, fmt.Errorf("%w: detach of image %d: %v", domain.ErrStoreDiverged, attachedID, err)
		}
		return nil, fmt.Errorf("exchange rows: %w", err)
	}

	if err := s.tightenLocked(ctx, img.Owner); err != nil {
		return nil, fmt.Errorf("tighten after detach: %w", err)
	}

	slog.Info("image detached", "attached_id", attachedID, "available_id", avail.ID,
		"owner", img.Owner.String())
	return avail, nil
}
