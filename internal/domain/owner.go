package domain

import (
	"context"
	"fmt"
	"time"
)

// OwnerType identifies which kind of catalog entity holds an attached image.
// The set is closed; anything else is rejected at the boundary.
type OwnerType string

const (
	OwnerItem       OwnerType = "item"
	OwnerCollection OwnerType = "collection"
	OwnerPartner    OwnerType = "partner"
	OwnerDetail     OwnerType = "detail"
)

// ParseOwnerType validates a raw owner-type tag.
func ParseOwnerType(s string) (OwnerType, error) {
	switch OwnerType(s) {
	case OwnerItem, OwnerCollection, OwnerPartner, OwnerDetail:
		return OwnerType(s), nil
	}
	return "", fmt.Errorf("%w: unknown owner type %q", ErrInvalidInput, s)
}

// Owner references the single catalog entity that exclusively holds an
// attached image.
type Owner struct {
	Type OwnerType
	ID   int64
}

func (o Owner) String() string {
	return fmt.Sprintf("%s %d", o.Type, o.ID)
}

// Item is a single catalogued museum object.
type Item struct {
	ID              int64
	InventoryNumber string
	Name            string
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Collection groups items under one curated theme.
type Collection struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Partner is an external institution or lender.
type Partner struct {
	ID        int64
	Name      string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemDetail is a named aspect of an item (a maker's mark, an inscription)
// that can carry its own images.
type ItemDetail struct {
	ID          int64
	ItemID      int64
	Label       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemRepository handles item persistence.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
}

// CollectionRepository handles collection persistence.
type CollectionRepository interface {
	Create(ctx context.Context, c *Collection) error
	GetByID(ctx context.Context, id int64) (*Collection, error)
	List(ctx context.Context) ([]Collection, error)
	Update(ctx context.Context, c *Collection) error
	Delete(ctx context.Context, id int64) error
}

// PartnerRepository handles partner persistence.
type PartnerRepository interface {
	Create(ctx context.Context, p *Partner) error
	GetByID(ctx context.Context, id int64) (*Partner, error)
	List(ctx context.Context) ([]Partner, error)
	Update(ctx context.Context, p *Partner) error
	Delete(ctx context.Context, id int64) error
}

// ItemDetailRepository handles item detail persistence.
type ItemDetailRepository interface {
	Create(ctx context.Context, d *ItemDetail) error
	GetByID(ctx context.Context, id int64) (*ItemDetail, error)
	ListByItem(ctx context.Context, itemID int64) ([]ItemDetail, error)
	Update(ctx context.Context, d *ItemDetail) error
	Delete(ctx context.Context, id int64) error
}

// OwnerResolver confirms an owner reference points at an existing catalog
// entity before an image is attached to it.
type OwnerResolver interface {
	OwnerExists(ctx context.Context, owner Owner) (bool, error)
}
