package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openmuseum/inventory/internal/domain"
)

// CatalogService exposes the owner catalog: items, collections, partners
// and item details. It also resolves owner references for the asset engines.
type CatalogService struct {
	items       domain.ItemRepository
	collections domain.CollectionRepository
	partners    domain.PartnerRepository
	details     domain.ItemDetailRepository
	attached    domain.AttachedImageRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	items domain.ItemRepository,
	collections domain.CollectionRepository,
	partners domain.PartnerRepository,
	details domain.ItemDetailRepository,
	attached domain.AttachedImageRepository,
) *CatalogService {
	return &CatalogService{items: items, collections: collections, partners: partners, details: details, attached: attached}
}

// ensureNoAttachedImages refuses owner deletion while images are attached;
// deleting the owner row would strand their files and rows.
func (s *CatalogService) ensureNoAttachedImages(ctx context.Context, owner domain.Owner) error {
	imgs, err := s.attached.SiblingsOf(ctx, owner)
	if err != nil {
		return fmt.Errorf("list attached images: %w", err)
	}
	if len(imgs) > 0 {
		return fmt.Errorf("%w: %s has %d", domain.ErrHasAttachedImages, owner, len(imgs))
	}
	return nil
}

// OwnerExists reports whether the referenced catalog entity exists.
func (s *CatalogService) OwnerExists(ctx context.Context, owner domain.Owner) (bool, error) {
	var err error
	switch owner.Type {
	case domain.OwnerItem:
		_, err = s.items.GetByID(ctx, owner.ID)
	case domain.OwnerCollection:
		_, err = s.collections.GetByID(ctx, owner.ID)
	case domain.OwnerPartner:
		_, err = s.partners.GetByID(ctx, owner.ID)
	case domain.OwnerDetail:
		_, err = s.details.GetByID(ctx, owner.ID)
	default:
		return false, fmt.Errorf("%w: unknown owner type %q", domain.ErrInvalidInput, owner.Type)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateItem validates and stores a new item.
func (s *CatalogService) CreateItem(ctx context.Context, item *domain.Item) error {
	if item.InventoryNumber == "" || item.Name == "" {
		return fmt.Errorf("%w: inventory number and name are required", domain.ErrInvalidInput)
	}
	return s.items.Create(ctx, item)
}

func (s *CatalogService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *CatalogService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.items.List(ctx)
}

func (s *CatalogService) UpdateItem(ctx context.Context, item *domain.Item) error {
	if item.InventoryNumber == "" || item.Name == "" {
		return fmt.Errorf("%w: inventory number and name are required", domain.ErrInvalidInput)
	}
	return s.items.Update(ctx, item)
}

// DeleteItem removes an item. It is refused while the item, or any of its
// details (which the schema deletes along with the item), still has images.
func (s *CatalogService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.ensureNoAttachedImages(ctx, domain.Owner{Type: domain.OwnerItem, ID: id}); err != nil {
		return err
	}
	details, err := s.details.ListByItem(ctx, id)
	if err != nil {
		return fmt.Errorf("list item details: %w", err)
	}
	for _, d := range details {
		if err := s.ensureNoAttachedImages(ctx, domain.Owner{Type: domain.OwnerDetail, ID: d.ID}); err != nil {
			return err
		}
	}
	return s.items.Delete(ctx, id)
}

// CreateCollection validates and stores a new collection.
func (s *CatalogService) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return s.collections.Create(ctx, c)
}

func (s *CatalogService) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	return s.collections.GetByID(ctx, id)
}

func (s *CatalogService) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.collections.List(ctx)
}

func (s *CatalogService) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return s.collections.Update(ctx, c)
}

func (s *CatalogService) DeleteCollection(ctx context.Context, id int64) error {
	if err := s.ensureNoAttachedImages(ctx, domain.Owner{Type: domain.OwnerCollection, ID: id}); err != nil {
		return err
	}
	return s.collections.Delete(ctx, id)
}

// CreatePartner validates and stores a new partner.
func (s *CatalogService) CreatePartner(ctx context.Context, p *domain.Partner) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return s.partners.Create(ctx, p)
}

func (s *CatalogService) GetPartner(ctx context.Context, id int64) (*domain.Partner, error) {
	return s.partners.GetByID(ctx, id)
}

func (s *CatalogService) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	return s.partners.List(ctx)
}

func (s *CatalogService) UpdatePartner(ctx context.Context, p *domain.Partner) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return s.partners.Update(ctx, p)
}

func (s *CatalogService) DeletePartner(ctx context.Context, id int64) error {
	if err := s.ensureNoAttachedImages(ctx, domain.Owner{Type: domain.OwnerPartner, ID: id}); err != nil {
		return err
	}
	return s.partners.Delete(ctx, id)
}

// CreateItemDetail validates and stores a detail under an existing item.
func (s *CatalogService) CreateItemDetail(ctx context.Context, d *domain.ItemDetail) error {
	if d.Label == "" {
		return fmt.Errorf("%w: label is required", domain.ErrInvalidInput)
	}
	if _, err := s.items.GetByID(ctx, d.ItemID); err != nil {
		return fmt.Errorf("resolve item: %w", err)
	}
	return s.details.Create(ctx, d)
}

func (s *CatalogService) GetItemDetail(ctx context.Context, id int64) (*domain.ItemDetail, error) {
	return s.details.GetByID(ctx, id)
}

func (s *CatalogService) ListItemDetails(ctx context.Context, itemID int64) ([]domain.ItemDetail, error) {
	return s.details.ListByItem(ctx, itemID)
}

func (s *CatalogService) UpdateItemDetail(ctx context.Context, d *domain.ItemDetail) error {
	if d.Label == "" {
		return fmt.Errorf("%w: label is required", domain.ErrInvalidInput)
	}
	return s.details.Update(ctx, d)
}

func (s *CatalogService) DeleteItemDetail(ctx context.Context, id int64) error {
	if err := s.ensureNoAttachedImages(ctx, domain.Owner{Type: domain.OwnerDetail, ID: id}); err != nil {
		return err
	}
	return s.details.Delete(ctx, id)
}
