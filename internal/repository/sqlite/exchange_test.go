package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openmuseum/inventory/internal/domain"
)

func TestAssetExchange_PromoteToAttached(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := domain.Owner{Type: domain.OwnerItem, ID: 1}

	seedAttached(t, db, owner, 0, "attached/existing.jpg", time.Now())
	avail := seedAvailable(t, db, "available/u1-a.jpg")

	img := &domain.AttachedImage{
		Owner:       owner,
		StoragePath: "attached/u1-a.jpg",
		Filename:    avail.Filename,
		ContentType: avail.ContentType,
		Size:        avail.Size,
	}
	if err := db.Exchange().PromoteToAttached(ctx, avail.ID, img); err != nil {
		t.Fatalf("PromoteToAttached: %v", err)
	}

	if img.ID == 0 {
		t.Fatal("expected attached ID to be set")
	}
	if img.DisplayOrder != 1 {
		t.Fatalf("expected display order 1 (max sibling + 1), got %d", img.DisplayOrder)
	}

	// The available row must be consumed.
	if _, err := db.AvailableImages().GetByID(ctx, avail.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected available row to be gone, got %v", err)
	}
}

func TestAssetExchange_PromoteToAttached_FirstSibling(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	avail := seedAvailable(t, db, "available/u1-a.jpg")
	img := &domain.AttachedImage{
		Owner:       domain.Owner{Type: domain.OwnerCollection, ID: 9},
		StoragePath: "attached/u1-a.jpg",
		Filename:    avail.Filename,
		ContentType: avail.ContentType,
		Size:        avail.Size,
	}
	if err := db.Exchange().PromoteToAttached(ctx, avail.ID, img); err != nil {
		t.Fatalf("PromoteToAttached: %v", err)
	}
	if img.DisplayOrder != 0 {
		t.Fatalf("expected display order 0 for first sibling, got %d", img.DisplayOrder)
	}
}

func TestAssetExchange_PromoteToAttached_ConsumedTwice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := domain.Owner{Type: domain.OwnerItem, ID: 1}

	avail := seedAvailable(t, db, "available/u1-a.jpg")

	first := &domain.AttachedImage{Owner: owner, StoragePath: "attached/u1-a.jpg",
		Filename: "a.jpg", ContentType: "image/jpeg", Size: 1}
	if err := db.Exchange().PromoteToAttached(ctx, avail.ID, first); err != nil {
		t.Fatalf("first PromoteToAttached: %v", err)
	}

	second := &domain.AttachedImage{Owner: owner, StoragePath: "attached/u2-a.jpg",
		Filename: "a.jpg", ContentType: "image/jpeg", Size: 1}
	err := db.Exchange().PromoteToAttached(ctx, avail.ID, second)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second promote, got %v", err)
	}

	// The failed promote must not leave a second attached row behind.
	siblings, err := db.AttachedImages().SiblingsOf(ctx, owner)
	if err != nil {
		t.Fatalf("SiblingsOf: %v", err)
	}
	if len(siblings) != 1 {
		t.Fatalf("expected 1 attached row, got %d", len(siblings))
	}
}

func TestAssetExchange_PromoteToAttached_DuplicatePath(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := domain.Owner{Type: domain.OwnerItem, ID: 1}

	seedAttached(t, db, owner, 0, "attached/taken.jpg", time.Now())
	avail := seedAvailable(t, db, "available/u1-a.jpg")

	img := &domain.AttachedImage{Owner: owner, StoragePath: "attached/taken.jpg",
		Filename: "a.jpg", ContentType: "image/jpeg", Size: 1}
	err := db.Exchange().PromoteToAttached(ctx, avail.ID, img)
	if !errors.Is(err, domain.ErrDuplicatePath) {
		t.Fatalf("expected ErrDuplicatePath, got %v", err)
	}

	// The available row must survive the failed exchange.
	if _, err := db.AvailableImages().GetByID(ctx, avail.ID); err != nil {
		t.Fatalf("expected available row to survive, got %v", err)
	}
}

func TestAssetExchange_DemoteToAvailable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := domain.Owner{Type: domain.OwnerPartner, ID: 2}

	id := seedAttached(t, db, owner, 0, "attached/u1-a.jpg", time.Now())

	avail := &domain.AvailableImage{
		StoragePath: "available/u2-a.jpg",
		Filename:    "a.jpg",
		ContentType: "image/jpeg",
		Size:        100,
		Comment:     "detached from partner 2",
	}
	if err := db.Exchange().DemoteToAvailable(ctx, id, avail); err != nil {
		t.Fatalf("DemoteToAvailable: %v", err)
	}
	if avail.ID == 0 {
		t.Fatal("expected available ID to be set")
	}

	if _, err := db.AttachedImages().GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected attached row to be gone, got %v", err)
	}

	found, err := db.AvailableImages().GetByID(ctx, avail.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Comment != "detached from partner 2" {
		t.Fatalf("unexpected comment %q", found.Comment)
	}
}

func TestAssetExchange_DemoteToAvailable_AlreadyGone(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	avail := &domain.AvailableImage{StoragePath: "available/u1-a.jpg",
		Filename: "a.jpg", ContentType: "image/jpeg", Size: 1}
	err := db.Exchange().DemoteToAvailable(ctx, 99999, avail)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The insert must have been rolled back with the failed delete.
	images, err := db.AvailableImages().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("expected no available rows, got %d", len(images))
	}
}
