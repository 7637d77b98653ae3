package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/openmuseum/inventory/internal/domain"
	"github.com/openmuseum/inventory/internal/service"
)

// AssetHandler exposes the image lifecycle: upload, attach, detach,
// reordering, serving and deletion.
type AssetHandler struct {
	assets *service.AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assets *service.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// respondError maps the domain error taxonomy onto HTTP statuses. NotFound
// and FileNotFound are always distinguishable to the caller.
func respondError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrFileNotFound):
		writeError(w, http.StatusConflict, "backing file missing")
	case errors.Is(err, domain.ErrOwnershipMismatch):
		writeError(w, http.StatusConflict, "asset belongs to a different owner")
	case errors.Is(err, domain.ErrHasAttachedImages):
		writeError(w, http.StatusConflict, "entity still has attached images")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrWriteFailure):
		writeError(w, http.StatusServiceUnavailable, "storage write failed")
	default:
		slog.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func ownerFromPath(r *http.Request) (domain.Owner, error) {
	ownerType, err := domain.ParseOwnerType(r.PathValue("type"))
	if err != nil {
		return domain.Owner{}, err
	}
	ownerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return domain.Owner{}, err
	}
	return domain.Owner{Type: ownerType, ID: ownerID}, nil
}

// HandleUpload ingests a multipart image into the available pool.
// POST /available-images
func (h *AssetHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (10MB limit).
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "file too large")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Detect content type from file bytes (more reliable than multipart header).
	contentType := http.DetectContentType(data)
	comment := r.FormValue("comment")

	img, err := h.assets.Upload(r.Context(), header.Filename, contentType, comment, data)
	if err != nil {
		respondError(w, err, "upload image")
		return
	}
	writeJSON(w, http.StatusCreated, toAvailableImageDTO(img))
}

// HandleListAvailable lists the available pool.
// GET /available-images
func (h *AssetHandler) HandleListAvailable(w http.ResponseWriter, r *http.Request) {
	images, err := h.assets.ListAvailable(r.Context())
	if err != nil {
		respondError(w, err, "list available images")
		return
	}
	dtos := make([]AvailableImageDTO, 0, len(images))
	for i := range images {
		dtos = append(dtos, toAvailableImageDTO(&images[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleServeAvailable serves pool image bytes with correct Content-Type.
// GET /available-images/{id}/file
func (h *AssetHandler) HandleServeAvailable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad image id")
		return
	}
	data, contentType, err := h.assets.GetAvailableFile(r.Context(), id)
	if err != nil {
		respondError(w, err, "serve available image")
		return
	}
	serveImage(w, data, contentType)
}

// HandleDeleteAvailable hard-deletes a pool image and its file.
// DELETE /available-images/{id}
func (h *AssetHandler) HandleDeleteAvailable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad image id")
		return
	}
	if err := h.assets.DeleteAvailable(r.Context(), id); err != nil {
		respondError(w, err, "delete available image")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAttach attaches an available image to a catalog entity.
// POST /available-images/{id}/attach
func (h *AssetHandler) HandleAttach(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad image id")
		return
	}

	var req struct {
		OwnerType string `json:"ownerType"`
		OwnerID   int64  `json:"ownerId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	ownerType, err := domain.ParseOwnerType(req.OwnerType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, err := h.assets.Attach(r.Context(), id, domain.Owner{Type: ownerType, ID: req.OwnerID})
	if err != nil {
		respondError(w, err, "attach image")
		return
	}
	writeJSON(w, http.StatusCreated, toAttachedImageDTO(img))
}

// HandleDetach returns an attached image to the available pool.
// POST /attached-images/{id}/detach
func (h *AssetHandler) HandleDetach(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad image id")
		return
	}

	var req struct {
		OwnerType string `json:"ownerType"`
		OwnerID   int64  `json:"ownerId"`
		Comment   string `json:"comment"`
	}
	if r.ContentLength > 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request body")
			return
		}
	}

	// The expected owner is optional; when present it guards against
	// detaching through the wrong entity's endpoint.
	var expected *domain.Owner
	if req.OwnerType != "" {
		ownerType, err := domain.ParseOwnerType(req.OwnerType)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		expected = &domain.Owner{Type: ownerType, ID: req.OwnerID}
	}

	img, err := h.assets.Detach(r.Context(), id, expected, req.Comment)
	if err != nil {
		respondError(w, err, "detach image")
		return
	}
	writeJSON(w, http.StatusOK, toAvailableImageDTO(img))
}

// HandleMoveUp swaps an image with its predecessor in display order.
// POST /attached-images/{id}/move-up
func (h *AssetHandler) HandleMoveUp(w http.ResponseWriter, r *http.Request) {
	h.handleMove(w, r, h.assets.MoveUp)
}

// HandleMoveDown swaps an image with its successor in display order.
// POST /attached-images/{id}/move-down
func (h *AssetHandler) HandleMoveDown(w http.ResponseWriter, r *http.Request) {
	h.handleMove(w, r, h.assets.MoveDown)
}

func (h *AssetHandler) handleMove(w http.ResponseWriter, r *http.Request, move func(context.Context, int64) (*domain.AttachedImage, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad image id")
		return
	}
	img, err := move(r.Context(), id)
	if err != nil {
		respondError(w, err, "move image")
		return
	}
	writeJSON(w, http.StatusOK, toAttachedImageDTO(img))
}

// HandleServeAttached serves owned image bytes.
// GET /attached-images/{id}/file
func (h *AssetHandler) HandleServeAttached(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad image id")
		return
	}
	data, contentType, err := h.assets.GetAttachedFile(r.Context(), id)
	if err != nil {
		respondError(w, err, "serve attached image")
		return
	}
	serveImage(w, data, contentType)
}

// HandleDeleteAttached hard-deletes an owned image and its file.
// DELETE /attached-images/{id}
func (h *AssetHandler) HandleDeleteAttached(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad image id")
		return
	}
	if err := h.assets.DeleteAttached(r.Context(), id); err != nil {
		respondError(w, err, "delete attached image")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListByOwner lists an entity's images in display order.
// GET /owners/{type}/{id}/images
func (h *AssetHandler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad owner reference")
		return
	}
	images, err := h.assets.ListByOwner(r.Context(), owner)
	if err != nil {
		respondError(w, err, "list attached images")
		return
	}
	dtos := make([]AttachedImageDTO, 0, len(images))
	for i := range images {
		dtos = append(dtos, toAttachedImageDTO(&images[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleTighten renumbers an entity's images to a dense sequence.
// POST /owners/{type}/{id}/images/tighten
func (h *AssetHandler) HandleTighten(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad owner reference")
		return
	}
	if err := h.assets.Tighten(r.Context(), owner); err != nil {
		respondError(w, err, "tighten image ordering")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func serveImage(w http.ResponseWriter, data []byte, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
