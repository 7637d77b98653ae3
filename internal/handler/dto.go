package handler

import (
	"time"

	"github.com/openmuseum/inventory/internal/domain"
)

// AvailableImageDTO is the JSON representation of a pool image.
type AvailableImageDTO struct {
	ID          int64  `json:"id"`
	StoragePath string `json:"storagePath"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Comment     string `json:"comment"`
	CreatedAt   string `json:"createdAt"`
}

func toAvailableImageDTO(img *domain.AvailableImage) AvailableImageDTO {
	return AvailableImageDTO{
		ID:          img.ID,
		StoragePath: img.StoragePath,
		Filename:    img.Filename,
		ContentType: img.ContentType,
		Size:        img.Size,
		Comment:     img.Comment,
		CreatedAt:   img.CreatedAt.Format(time.RFC3339),
	}
}

// AttachedImageDTO is the JSON representation of an owned image.
type AttachedImageDTO struct {
	ID           int64  `json:"id"`
	OwnerType    string `json:"ownerType"`
	OwnerID      int64  `json:"ownerId"`
	StoragePath  string `json:"storagePath"`
	Filename     string `json:"filename"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	Caption      string `json:"caption"`
	DisplayOrder int    `json:"displayOrder"`
	CreatedAt    string `json:"createdAt"`
}

func toAttachedImageDTO(img *domain.AttachedImage) AttachedImageDTO {
	return AttachedImageDTO{
		ID:           img.ID,
		OwnerType:    string(img.Owner.Type),
		OwnerID:      img.Owner.ID,
		StoragePath:  img.StoragePath,
		Filename:     img.Filename,
		ContentType:  img.ContentType,
		Size:         img.Size,
		Caption:      img.Caption,
		DisplayOrder: img.DisplayOrder,
		CreatedAt:    img.CreatedAt.Format(time.RFC3339),
	}
}

// ItemDTO is the JSON representation of an item.
type ItemDTO struct {
	ID              int64  `json:"id"`
	InventoryNumber string `json:"inventoryNumber"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func toItemDTO(i *domain.Item) ItemDTO {
	return ItemDTO{
		ID:              i.ID,
		InventoryNumber: i.InventoryNumber,
		Name:            i.Name,
		Description:     i.Description,
		CreatedAt:       i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       i.UpdatedAt.Format(time.RFC3339),
	}
}

// CollectionDTO is the JSON representation of a collection.
type CollectionDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toCollectionDTO(c *domain.Collection) CollectionDTO {
	return CollectionDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

// PartnerDTO is the JSON representation of a partner.
type PartnerDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Website   string `json:"website"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toPartnerDTO(p *domain.Partner) PartnerDTO {
	return PartnerDTO{
		ID:        p.ID,
		Name:      p.Name,
		Website:   p.Website,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// ItemDetailDTO is the JSON representation of an item detail.
type ItemDetailDTO struct {
	ID          int64  `json:"id"`
	ItemID      int64  `json:"itemId"`
	Label       string `json:"label"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toItemDetailDTO(d *domain.ItemDetail) ItemDetailDTO {
	return ItemDetailDTO{
		ID:          d.ID,
		ItemID:      d.ItemID,
		Label:       d.Label,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
}
