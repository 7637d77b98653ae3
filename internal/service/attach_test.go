package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openmuseum/inventory/internal/domain"
	"github.com/openmuseum/inventory/internal/storage"
)

func TestAttach(t *testing.T) {
	assets, catalog, db, store := newTestAssetService(t)
	ctx := context.Background()
	owner := seedItemOwner(t, catalog, "INV-001")

	// One existing sibling at order 0.
	first := uploadImage(t, assets, "first.jpg", []byte("first"))
	if _, err := assets.Attach(ctx, first.ID, owner); err != nil {
		t.Fatalf("attach first: %v", err)
	}

	data := []byte("second image content")
	avail := uploadImage(t, assets, "a.jpg", data)
	availPath := avail.StoragePath

	img, err := assets.Attach(ctx, avail.ID, owner)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if img.DisplayOrder != 1 {
		t.Fatalf("expected display order 1, got %d", img.DisplayOrder)
	}
	if !strings.HasPrefix(img.StoragePath, storage.AttachedDir+"/") {
		t.Fatalf("expected storage path under attached/, got %q", img.StoragePath)
	}
	if !strings.HasSuffix(img.StoragePath, "-a.jpg") {
		t.Fatalf("expected identifier-prefixed filename, got %q", img.StoragePath)
	}

	// Exclusivity: the available record is gone, the attached record exists,
	// and the file lives only at the attached path.
	if _, err := db.AvailableImages().GetByID(ctx, avail.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected available row to be consumed, got %v", err)
	}
	if store.Exists(ctx, availPath) {
		t.Fatal("expected file to be gone from the available path")
	}
	got, err := store.Read(ctx, img.StoragePath)
	if err != nil {
		t.Fatalf("read attached file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("attached file content differs from uploaded content")
	}
}

func TestAttach_SameIDTwice(t *testing.T) {
	assets, catalog, _, _ := newTestAssetService(t)
	ctx := context.Background()
	owner := seedItemOwner(t, catalog, "INV-001")

	avail := uploadImage(t, assets, "a.jpg", []byte("x"))

	if _, err := assets.Attach(ctx, avail.ID, owner); err != nil {
		t.Fatalf("first Attach: %v", err)
	}

	_, err := assets.Attach(ctx, avail.ID, owner)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second attach, got %v", err)
	}
}

func TestAttach_UnknownAvailableID(t *testing.T) {
	assets, catalog, _, _ := newTestAssetService(t)
	owner := seedItemOwner(t, catalog, "INV-001")

	_, err := assets.Attach(context.Background(), 99999, owner)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttach_UnknownOwner(t *testing.T) {
	assets, _, _, _ := newTestAssetService(t)

	avail := uploadImage(t, assets, "a.jpg", []byte("x"))

	_, err := assets.Attach(context.Background(), avail.ID, domain.Owner{Type: domain.OwnerItem, ID: 42})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing owner, got %v", err)
	}
}

func TestAttach_InvalidOwnerType(t *testing.T) {
	assets, _, _, _ := newTestAssetService(t)

	avail := uploadImage(t, assets, "a.jpg", []byte("x"))

	_, err := assets.Attach(context.Background(), avail.ID, domain.Owner{Type: "gallery", ID: 1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAttach_MissingFile(t *testing.T) {
	assets, catalog, db, store := newTestAssetService(t)
	ctx := context.Background()
	owner := seedItemOwner(t, catalog, "INV-001")

	avail := uploadImage(t, assets, "a.jpg", []byte("x"))

	// Simulate out-of-band deletion of the backing file.
	if err := store.Delete(ctx, avail.StoragePath); err != nil {
		t.Fatalf("delete file out of band: %v", err)
	}

	_, err := assets.Attach(ctx, avail.ID, owner)
	if !errors.Is(err, domain.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}

	// The metadata row stays queryable for operator inspection.
	if _, err := db.AvailableImages().GetByID(ctx, avail.ID); err != nil {
		t.Fatalf("expected available row to be untouched, got %v", err)
	}
}

func TestAttach_AcrossOwnerKinds(t *testing.T) {
	assets, catalog, _, _ := newTestAssetService(t)
	ctx := context.Background()

	item := seedItemOwner(t, catalog, "INV-001")

	coll := &domain.Collection{Name: "Antiquities"}
	if err := catalog.CreateCollection(ctx, coll); err != nil {
		t.Fatalf("create collection: %v", err)
	}
	partner := &domain.Partner{Name: "National Archive"}
	if err := catalog.CreatePartner(ctx, partner); err != nil {
		t.Fatalf("create partner: %v", err)
	}
	detail := &domain.ItemDetail{ItemID: item.ID, Label: "Inscription"}
	if err := catalog.CreateItemDetail(ctx, detail); err != nil {
		t.Fatalf("create detail: %v", err)
	}

	owners := []domain.Owner{
		item,
		{Type: domain.OwnerCollection, ID: coll.ID},
		{Type: domain.OwnerPartner, ID: partner.ID},
		{Type: domain.OwnerDetail, ID: detail.ID},
	}
	for _, owner := range owners {
		avail := uploadImage(t, assets, "a.jpg", []byte("x"))
		img, err := assets.Attach(ctx, avail.ID, owner)
		if err != nil {
			t.Fatalf("attach to %s: %v", owner, err)
		}
		if img.Owner != owner {
			t.Fatalf("expected owner %s, got %s", owner, img.Owner)
		}
		if img.DisplayOrder != 0 {
			t.Fatalf("expected display order 0 for %s, got %d", owner, img.DisplayOrder)
		}
	}
}

// Two same-named uploads must not collide in the flat attached directory.
func TestAttach_SameFilenameTwice(t *testing.T) {
	assets, catalog, _, _ := newTestAssetService(t)
	ctx := context.Background()
	owner := seedItemOwner(t, catalog, "INV-001")

	a := uploadImage(t, assets, "photo.jpg", []byte("one"))
	b := uploadImage(t, assets, "photo.jpg", []byte("two"))

	imgA, err := assets.Attach(ctx, a.ID, owner)
	if err != nil {
		t.Fatalf("attach a: %v", err)
	}
	imgB, err := assets.Attach(ctx, b.ID, owner)
	if err != nil {
		t.Fatalf("attach b: %v", err)
	}
	if imgA.StoragePath == imgB.StoragePath {
		t.Fatalf("expected distinct storage paths, both got %q", imgA.StoragePath)
	}
}
