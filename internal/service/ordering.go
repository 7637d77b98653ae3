package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/openmuseum/inventory/internal/domain"
)

// The ordering logic is pure: given a loaded sibling set it computes which
// rows to rewrite, and the caller persists them. Move up/down swap exactly
// two order values, so a move costs O(1) writes regardless of sibling count.
// Gaps left by detaches are squeezed out lazily by the tighten plan.

// swapAbove returns the sibling with the greatest display order strictly
// below img's, or nil when img is already first.
func swapAbove(img *domain.AttachedImage, siblings []domain.AttachedImage) *domain.AttachedImage {
	var best *domain.AttachedImage
	for i := range siblings {
		s := &siblings[i]
		if s.ID == img.ID || s.DisplayOrder >= img.DisplayOrder {
			continue
		}
		if best == nil || s.DisplayOrder > best.DisplayOrder {
			best = s
		}
	}
	return best
}

// swapBelow returns the sibling with the smallest display order strictly
// above img's, or nil when img is already last.
func swapBelow(img *domain.AttachedImage, siblings []domain.AttachedImage) *domain.AttachedImage {
	var best *domain.AttachedImage
	for i := range siblings {
		s := &siblings[i]
		if s.ID == img.ID || s.DisplayOrder <= img.DisplayOrder {
			continue
		}
		if best == nil || s.DisplayOrder < best.DisplayOrder {
			best = s
		}
	}
	return best
}

// tightenPlan renumbers siblings to the contiguous sequence 0..N-1, sorted
// by current order with creation time (oldest first) breaking ties, and
// returns only the rows whose order actually changes.
func tightenPlan(siblings []domain.AttachedImage) []domain.OrderUpdate {
	sorted := make([]domain.AttachedImage, len(siblings))
	copy(sorted, siblings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var updates []domain.OrderUpdate
	for i := range sorted {
		if sorted[i].DisplayOrder != i {
			updates = append(updates, domain.OrderUpdate{ID: sorted[i].ID, DisplayOrder: i})
		}
	}
	return updates
}

// MoveUp swaps the image with its predecessor in display order. Moving the
// first image is a no-op.
func (s *AssetService) MoveUp(ctx context.Context, id int64) (*domain.AttachedImage, error) {
	return s.move(ctx, id, swapAbove)
}

// MoveDown swaps the image with its successor in display order. Moving the
// last image is a no-op.
func (s *AssetService) MoveDown(ctx context.Context, id int64) (*domain.AttachedImage, error) {
	return s.move(ctx, id, swapBelow)
}

func (s *AssetService) move(ctx context.Context, id int64, pick func(*domain.AttachedImage, []domain.AttachedImage) *domain.AttachedImage) (*domain.AttachedImage, error) {
	img, err := s.attached.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attached image: %w", err)
	}

	release := s.locks.acquire(img.Owner)
	defer release()

	// Re-read under the lock; a concurrent detach may have removed it.
	img, err = s.attached.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get attached image: %w", err)
	}

	siblings, err := s.attached.SiblingsOf(ctx, img.Owner)
	if err != nil {
		return nil, fmt.Errorf("load siblings: %w", err)
	}

	other := pick(img, siblings)
	if other == nil {
		return img, nil
	}

	updates := []domain.OrderUpdate{
		{ID: img.ID, DisplayOrder: other.DisplayOrder},
		{ID: other.ID, DisplayOrder: img.DisplayOrder},
	}
	if err := s.attached.UpdateOrders(ctx, updates); err != nil {
		return nil, fmt.Errorf("swap display orders: %w", err)
	}

	img.DisplayOrder = updates[0].DisplayOrder
	return img, nil
}

// Tighten renumbers an owner's images to a dense 0..N-1 sequence.
func (s *AssetService) Tighten(ctx context.Context, owner domain.Owner) error {
	release := s.locks.acquire(owner)
	defer release()
	return s.tightenLocked(ctx, owner)
}

// tightenLocked assumes the caller holds the owner's lock.
func (s *AssetService) tightenLocked(ctx context.Context, owner domain.Owner) error {
	siblings, err := s.attached.SiblingsOf(ctx, owner)
	if err != nil {
		return fmt.Errorf("load siblings: %w", err)
	}
	if err := s.attached.UpdateOrders(ctx, tightenPlan(siblings)); err != nil {
		return fmt.Errorf("tighten display orders: %w", err)
	}
	return nil
}
