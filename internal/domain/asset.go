package domain

import (
	"context"
	"time"
)

// AvailableImage is an uploaded image not yet owned by any catalog entity.
// Its storage path always resolves to an existing file under available/;
// a row without a file indicates drift and is surfaced, never compacted away.
type AvailableImage struct {
	ID          int64
	StoragePath string // unique, under the available/ tree
	Filename    string // original upload filename
	ContentType string
	Size        int64 // file size in bytes
	Comment     string
	CreatedAt   time.Time
}

// AttachedImage is an image exclusively owned by one catalog entity,
// carrying a display order among its siblings.
type AttachedImage struct {
	ID           int64
	Owner        Owner
	StoragePath  string // unique, under the attached/ tree
	Filename     string
	ContentType  string
	Size         int64
	Caption      string
	DisplayOrder int
	CreatedAt    time.Time
}

// OrderUpdate is one display-order reassignment to persist.
type OrderUpdate struct {
	ID           int64
	DisplayOrder int
}

// AvailableImageRepository persists the available pool.
type AvailableImageRepository interface {
	Create(ctx context.Context, img *AvailableImage) error
	GetByID(ctx context.Context, id int64) (*AvailableImage, error)
	List(ctx context.Context) ([]AvailableImage, error)
	Delete(ctx context.Context, id int64) error
}

// AttachedImageRepository persists owned images.
type AttachedImageRepository interface {
	GetByID(ctx context.Context, id int64) (*AttachedImage, error)
	// SiblingsOf returns every image attached to owner, sorted by display
	// order ascending (creation time breaks ties).
	SiblingsOf(ctx context.Context, owner Owner) ([]AttachedImage, error)
	// MaxOrder returns the greatest display order among owner's images,
	// or -1 if none exist.
	MaxOrder(ctx context.Context, owner Owner) (int, error)
	// UpdateOrders persists a batch of display-order reassignments in one
	// transaction.
	UpdateOrders(ctx context.Context, updates []OrderUpdate) error
	Delete(ctx context.Context, id int64) error
}

// AssetExchanger performs the two-row state transition of an image between
// the available pool and attached ownership as a single transaction, so the
// two tables never both (or neither) reference a file between transactions.
type AssetExchanger interface {
	// PromoteToAttached inserts img with the owner's next display order and
	// deletes the available row it consumes. Fails with ErrNotFound if the
	// available row is already gone.
	PromoteToAttached(ctx context.Context, availableID int64, img *AttachedImage) error
	// DemoteToAvailable inserts img and deletes the attached row it
	// replaces. Fails with ErrNotFound if the attached row is already gone.
	DemoteToAvailable(ctx context.Context, attachedID int64, img *AvailableImage) error
}

// ImageStore abstracts file byte storage under one root with available/ and
// attached/ subtrees. The initial implementation is a local disk; the
// interface allows swapping to an object store later.
type ImageStore interface {
	// Move relocates a file. On any failure the source is left intact; a
	// partially written destination is removed before reporting
	// ErrWriteFailure.
	Move(ctx context.Context, src, dst string) error
	// WriteNew creates a file that must not already exist; used only by
	// upload ingestion into the available pool.
	WriteNew(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) bool
	Read(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	Size(ctx context.Context, path string) (int64, error)
}
