package handler

import (
	"net/http"

	"github.com/openmuseum/inventory/internal/domain"
	"github.com/openmuseum/inventory/internal/service"
)

// CatalogHandler exposes CRUD over the owner catalog.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type itemRequest struct {
	InventoryNumber string `json:"inventoryNumber"`
	Name            string `json:"name"`
	Description     string `json:"description"`
}

// HandleCreateItem creates an item. POST /items
func (h *CatalogHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	item := &domain.Item{InventoryNumber: req.InventoryNumber, Name: req.Name, Description: req.Description}
	if err := h.catalog.CreateItem(r.Context(), item); err != nil {
		respondError(w, err, "create item")
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(item))
}

// HandleGetItem returns one item. GET /items/{id}
func (h *CatalogHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad item id")
		return
	}
	item, err := h.catalog.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, err, "get item")
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleListItems lists all items. GET /items
func (h *CatalogHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListItems(r.Context())
	if err != nil {
		respondError(w, err, "list items")
		return
	}
	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toItemDTO(&items[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleUpdateItem updates an item. PUT /items/{id}
func (h *CatalogHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad item id")
		return
	}
	var req itemRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	item := &domain.Item{ID: id, InventoryNumber: req.InventoryNumber, Name: req.Name, Description: req.Description}
	if err := h.catalog.UpdateItem(r.Context(), item); err != nil {
		respondError(w, err, "update item")
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleDeleteItem deletes an item. DELETE /items/{id}
func (h *CatalogHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad item id")
		return
	}
	if err := h.catalog.DeleteItem(r.Context(), id); err != nil {
		respondError(w, err, "delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type collectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateCollection creates a collection. POST /collections
func (h *CatalogHandler) HandleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	c := &domain.Collection{Name: req.Name, Description: req.Description}
	if err := h.catalog.CreateCollection(r.Context(), c); err != nil {
		respondError(w, err, "create collection")
		return
	}
	writeJSON(w, http.StatusCreated, toCollectionDTO(c))
}

// HandleGetCollection returns one collection. GET /collections/{id}
func (h *CatalogHandler) HandleGetCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad collection id")
		return
	}
	c, err := h.catalog.GetCollection(r.Context(), id)
	if err != nil {
		respondError(w, err, "get collection")
		return
	}
	writeJSON(w, http.StatusOK, toCollectionDTO(c))
}

// HandleListCollections lists all collections. GET /collections
func (h *CatalogHandler) HandleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.catalog.ListCollections(r.Context())
	if err != nil {
		respondError(w, err, "list collections")
		return
	}
	dtos := make([]CollectionDTO, 0, len(collections))
	for i := range collections {
		dtos = append(dtos, toCollectionDTO(&collections[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleUpdateCollection updates a collection. PUT /collections/{id}
func (h *CatalogHandler) HandleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad collection id")
		return
	}
	var req collectionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	c := &domain.Collection{ID: id, Name: req.Name, Description: req.Description}
	if err := h.catalog.UpdateCollection(r.Context(), c); err != nil {
		respondError(w, err, "update collection")
		return
	}
	writeJSON(w, http.StatusOK, toCollectionDTO(c))
}

// HandleDeleteCollection deletes a collection. DELETE /collections/{id}
func (h *CatalogHandler) HandleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad collection id")
		return
	}
	if err := h.catalog.DeleteCollection(r.Context(), id); err != nil {
		respondError(w, err, "delete collection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type partnerRequest struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

// HandleCreatePartner creates a partner. POST /partners
func (h *CatalogHandler) HandleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var req partnerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	p := &domain.Partner{Name: req.Name, Website: req.Website}
	if err := h.catalog.CreatePartner(r.Context(), p); err != nil {
		respondError(w, err, "create partner")
		return
	}
	writeJSON(w, http.StatusCreated, toPartnerDTO(p))
}

// HandleGetPartner returns one partner. GET /partners/{id}
func (h *CatalogHandler) HandleGetPartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad partner id")
		return
	}
	p, err := h.catalog.GetPartner(r.Context(), id)
	if err != nil {
		respondError(w, err, "get partner")
		return
	}
	writeJSON(w, http.StatusOK, toPartnerDTO(p))
}

// HandleListPartners lists all partners. GET /partners
func (h *CatalogHandler) HandleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.catalog.ListPartners(r.Context())
	if err != nil {
		respondError(w, err, "list partners")
		return
	}
	dtos := make([]PartnerDTO, 0, len(partners))
	for i := range partners {
		dtos = append(dtos, toPartnerDTO(&partners[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleUpdatePartner updates a partner. PUT /partners/{id}
func (h *CatalogHandler) HandleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad partner id")
		return
	}
	var req partnerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	p := &domain.Partner{ID: id, Name: req.Name, Website: req.Website}
	if err := h.catalog.UpdatePartner(r.Context(), p); err != nil {
		respondError(w, err, "update partner")
		return
	}
	writeJSON(w, http.StatusOK, toPartnerDTO(p))
}

// HandleDeletePartner deletes a partner. DELETE /partners/{id}
func (h *CatalogHandler) HandleDeletePartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad partner id")
		return
	}
	if err := h.catalog.DeletePartner(r.Context(), id); err != nil {
		respondError(w, err, "delete partner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type itemDetailRequest struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// HandleCreateItemDetail creates a detail under an item. POST /items/{id}/details
func (h *CatalogHandler) HandleCreateItemDetail(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad item id")
		return
	}
	var req itemDetailRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	d := &domain.ItemDetail{ItemID: itemID, Label: req.Label, Description: req.Description}
	if err := h.catalog.CreateItemDetail(r.Context(), d); err != nil {
		respondError(w, err, "create item detail")
		return
	}
	writeJSON(w, http.StatusCreated, toItemDetailDTO(d))
}

// HandleListItemDetails lists an item's details. GET /items/{id}/details
func (h *CatalogHandler) HandleListItemDetails(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad item id")
		return
	}
	details, err := h.catalog.ListItemDetails(r.Context(), itemID)
	if err != nil {
		respondError(w, err, "list item details")
		return
	}
	dtos := make([]ItemDetailDTO, 0, len(details))
	for i := range details {
		dtos = append(dtos, toItemDetailDTO(&details[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleUpdateItemDetail updates a detail. PUT /details/{id}
func (h *CatalogHandler) HandleUpdateItemDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad detail id")
		return
	}
	existing, err := h.catalog.GetItemDetail(r.Context(), id)
	if err != nil {
		respondError(w, err, "get item detail")
		return
	}
	var req itemDetailRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	existing.Label = req.Label
	existing.Description = req.Description
	if err := h.catalog.UpdateItemDetail(r.Context(), existing); err != nil {
		respondError(w, err, "update item detail")
		return
	}
	writeJSON(w, http.StatusOK, toItemDetailDTO(existing))
}

// HandleDeleteItemDetail deletes a detail. DELETE /details/{id}
func (h *CatalogHandler) HandleDeleteItemDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad detail id")
		return
	}
	if err := h.catalog.DeleteItemDetail(r.Context(), id); err != nil {
		respondError(w, err, "delete item detail")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
