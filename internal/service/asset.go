package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/openmuseum/inventory/internal/domain"
	"github.com/openmuseum/inventory/internal/storage"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

// AssetService orchestrates the image lifecycle: ingestion into the
// available pool, attachment to and detachment from catalog entities, and
// sibling ordering.
type AssetService struct {
	available domain.AvailableImageRepository
	attached  domain.AttachedImageRepository
	exchange  domain.AssetExchanger
	store     domain.ImageStore
	owners    domain.OwnerResolver
	locks     *ownerLocks

	// poolMu serializes consumption of an available row (attach) against
	// its hard delete. Without it a compensated attach can restore a file
	// whose row was deleted in between, leaving an orphan on disk.
	poolMu sync.Mutex
}

// NewAssetService creates a new AssetService.
func NewAssetService(
	available domain.AvailableImageRepository,
	attached domain.AttachedImageRepository,
	exchange domain.AssetExchanger,
	store domain.ImageStore,
	owners domain.OwnerResolver,
) *AssetService {
	return &AssetService{
		available: available,
		attached:  attached,
		exchange:  exchange,
		store:     store,
		owners:    owners,
		locks:     newOwnerLocks(),
	}
}

// Upload validates an image and places it into the available pool.
func (s *AssetService) Upload(ctx context.Context, filename, contentType, comment string, data []byte) (*domain.AvailableImage, error) {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, fmt.Errorf("%w: only JPEG and PNG images are accepted", domain.ErrInvalidInput)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("%w: image exceeds 10MB limit", domain.ErrInvalidInput)
	}

	base := sanitizeFilename(filename)
	path := storage.AvailablePath(uuid.NewString() + "-" + base)

	if err := s.store.WriteNew(ctx, path, data); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	img := &domain.AvailableImage{
		StoragePath: path,
		Filename:    base,
		ContentType: contentType,
		Size:        int64(len(data)),
		Comment:     comment,
	}
	if err := s.available.Create(ctx, img); err != nil {
		// Best-effort cleanup of the stored file.
		s.store.Delete(ctx, path)
		return nil, fmt.Errorf("create available image: %w", err)
	}
	return img, nil
}

// ListAvailable returns the whole available pool, newest first.
func (s *AssetService) ListAvailable(ctx context.Context) ([]domain.AvailableImage, error) {
	return s.available.List(ctx)
}

// ListByOwner returns every image attached to the owner in display order.
func (s *AssetService) ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.AttachedImage, error) {
	return s.attached.SiblingsOf(ctx, owner)
}

// GetAvailableFile returns the bytes and content type of a pool image.
func (s *AssetService) GetAvailableFile(ctx context.Context, id int64) ([]byte, string, error) {
	img, err := s.available.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("get available image: %w", err)
	}
	data, err := s.store.Read(ctx, img.StoragePath)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return data, img.ContentType, nil
}

// GetAttachedFile returns the bytes and content type of an owned image.
func (s *AssetService) GetAttachedFile(ctx context.Context, id int64) ([]byte, string, error) {
	img, err := s.attached.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("get attached image: %w", err)
	}
	data, err := s.store.Read(ctx, img.StoragePath)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return data, img.ContentType, nil
}

// DeleteAvailable removes a pool image together with its backing file.
func (s *AssetService) DeleteAvailable(ctx context.Context, id int64) error {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()

	img, err := s.available.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get available image: %w", err)
	}
	if err := s.available.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete available image: %w", err)
	}
	if err := s.store.Delete(ctx, img.StoragePath); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// DeleteAttached hard-deletes an owned image and its backing file, then
// tightens the remaining siblings.
func (s *AssetService) DeleteAttached(ctx context.Context, id int64) error {
	img, err := s.attached.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get attached image: %w", err)
	}

	release := s.locks.acquire(img.Owner)
	defer release()

	if err := s.attached.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete attached image: %w", err)
	}
	if err := s.store.Delete(ctx, img.StoragePath); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return s.tightenLocked(ctx, img.Owner)
}

// sanitizeFilename strips any path component from an upload name.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" || base == "" {
		return "image"
	}
	return base
}
