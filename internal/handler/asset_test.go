package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openmuseum/inventory/internal/handler"
	"github.com/openmuseum/inventory/internal/repository/sqlite"
	"github.com/openmuseum/inventory/internal/service"
	"github.com/openmuseum/inventory/internal/storage"
)

// jpegBytes carries a JPEG magic prefix so content sniffing accepts it.
func jpegBytes(payload string) []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte(payload)...)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}

	catalog := service.NewCatalogService(db.Items(), db.Collections(), db.Partners(), db.ItemDetails(), db.AttachedImages())
	assets := service.NewAssetService(db.AvailableImages(), db.AttachedImages(), db.Exchange(), store, catalog)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, assets, catalog)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	resp, err := http.Post(srv.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response from %s: %v", path, err)
		}
	}
	return resp
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response from %s: %v", path, err)
		}
	}
	return resp
}

func uploadMultipart(t *testing.T, srv *httptest.Server, filename string, data []byte, comment string) handler.AvailableImageDTO {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if comment != "" {
		if err := mw.WriteField("comment", comment); err != nil {
			t.Fatalf("write comment field: %v", err)
		}
	}
	mw.Close()

	resp, err := http.Post(srv.URL+"/available-images", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201 from upload, got %d: %s", resp.StatusCode, body)
	}

	var dto handler.AvailableImageDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return dto
}

func createItem(t *testing.T, srv *httptest.Server, inventoryNumber string) handler.ItemDTO {
	t.Helper()
	var item handler.ItemDTO
	resp := postJSON(t, srv, "/items", map[string]string{
		"inventoryNumber": inventoryNumber,
		"name":            "Amphora",
	}, &item)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating item, got %d", resp.StatusCode)
	}
	return item
}

// TestImageLifecycle drives the full flow over HTTP: upload into the pool,
// attach to an item, reorder, then detach back to the pool.
func TestImageLifecycle(t *testing.T) {
	srv := newTestServer(t)
	item := createItem(t, srv, "INV-001")

	first := uploadMultipart(t, srv, "front.jpg", jpegBytes("front"), "")
	second := uploadMultipart(t, srv, "back.jpg", jpegBytes("back"), "")

	ownerBody := map[string]any{"ownerType": "item", "ownerId": item.ID}

	var attachedFirst, attachedSecond handler.AttachedImageDTO
	if resp := postJSON(t, srv, fmt.Sprintf("/available-images/%d/attach", first.ID), ownerBody, &attachedFirst); resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 attaching first image, got %d", resp.StatusCode)
	}
	if resp := postJSON(t, srv, fmt.Sprintf("/available-images/%d/attach", second.ID), ownerBody, &attachedSecond); resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 attaching second image, got %d", resp.StatusCode)
	}
	if attachedFirst.DisplayOrder != 0 || attachedSecond.DisplayOrder != 1 {
		t.Fatalf("expected display orders 0 and 1, got %d and %d", attachedFirst.DisplayOrder, attachedSecond.DisplayOrder)
	}

	// The pool is empty now.
	var pool []handler.AvailableImageDTO
	getJSON(t, srv, "/available-images", &pool)
	if len(pool) != 0 {
		t.Fatalf("expected empty pool after attaching, got %d images", len(pool))
	}

	// Move the second image to the front.
	var moved handler.AttachedImageDTO
	if resp := postJSON(t, srv, fmt.Sprintf("/attached-images/%d/move-up", attachedSecond.ID), nil, &moved); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from move-up, got %d", resp.StatusCode)
	}
	if moved.DisplayOrder != 0 {
		t.Fatalf("expected moved image at order 0, got %d", moved.DisplayOrder)
	}

	var gallery []handler.AttachedImageDTO
	getJSON(t, srv, fmt.Sprintf("/owners/item/%d/images", item.ID), &gallery)
	if len(gallery) != 2 || gallery[0].ID != attachedSecond.ID {
		t.Fatalf("expected reordered gallery, got %+v", gallery)
	}

	// Serve the attached file.
	resp, err := http.Get(srv.URL + fmt.Sprintf("/attached-images/%d/file", attachedFirst.ID))
	if err != nil {
		t.Fatalf("get file: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 serving file, got %d", resp.StatusCode)
	}
	if !bytes.Equal(body, jpegBytes("front")) {
		t.Fatal("expected served bytes to match the upload")
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/jpeg") {
		t.Fatalf("expected image/jpeg content type, got %q", ct)
	}

	// Detach the first image back to the pool.
	var detached handler.AvailableImageDTO
	if resp := postJSON(t, srv, fmt.Sprintf("/attached-images/%d/detach", attachedFirst.ID), nil, &detached); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from detach, got %d", resp.StatusCode)
	}
	if detached.Comment == "" {
		t.Fatal("expected a synthesized detach comment")
	}

	getJSON(t, srv, "/available-images", &pool)
	if len(pool) != 1 || pool[0].ID != detached.ID {
		t.Fatalf("expected detached image back in the pool, got %+v", pool)
	}
	gallery = nil
	getJSON(t, srv, fmt.Sprintf("/owners/item/%d/images", item.ID), &gallery)
	if len(gallery) != 1 || gallery[0].DisplayOrder != 0 {
		t.Fatalf("expected one remaining image at order 0, got %+v", gallery)
	}
}

func TestHandleAttach_UnknownOwner(t *testing.T) {
	srv := newTestServer(t)
	img := uploadMultipart(t, srv, "a.jpg", jpegBytes("a"), "")

	resp := postJSON(t, srv, fmt.Sprintf("/available-images/%d/attach", img.ID),
		map[string]any{"ownerType": "item", "ownerId": 999}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown owner, got %d", resp.StatusCode)
	}
}

func TestHandleAttach_BadOwnerType(t *testing.T) {
	srv := newTestServer(t)
	img := uploadMultipart(t, srv, "a.jpg", jpegBytes("a"), "")

	resp := postJSON(t, srv, fmt.Sprintf("/available-images/%d/attach", img.ID),
		map[string]any{"ownerType": "gallery", "ownerId": 1}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad owner type, got %d", resp.StatusCode)
	}
}

func TestHandleDetach_OwnershipMismatch(t *testing.T) {
	srv := newTestServer(t)
	item := createItem(t, srv, "INV-001")
	img := uploadMultipart(t, srv, "a.jpg", jpegBytes("a"), "")

	var attached handler.AttachedImageDTO
	postJSON(t, srv, fmt.Sprintf("/available-images/%d/attach", img.ID),
		map[string]any{"ownerType": "item", "ownerId": item.ID}, &attached)

	resp := postJSON(t, srv, fmt.Sprintf("/attached-images/%d/detach", attached.ID),
		map[string]any{"ownerType": "collection", "ownerId": 5}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for ownership mismatch, got %d", resp.StatusCode)
	}
}

func TestHandleUpload_RejectsNonImage(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "notes.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("plain text, not an image"))
	mw.Close()

	resp, err := http.Post(srv.URL+"/available-images", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image upload, got %d", resp.StatusCode)
	}
}

func TestHandleDeleteAvailable(t *testing.T) {
	srv := newTestServer(t)
	img := uploadMultipart(t, srv, "a.jpg", jpegBytes("a"), "")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+fmt.Sprintf("/available-images/%d", img.ID), nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + fmt.Sprintf("/available-images/%d/file", img.ID))
	if err != nil {
		t.Fatalf("get file: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestHandleListByOwner_BadType(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/owners/gallery/1/images")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown owner type, got %d", resp.StatusCode)
	}
}
