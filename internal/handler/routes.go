package handler

import (
	"net/http"

	"github.com/openmuseum/inventory/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, assets *service.AssetService, catalog *service.CatalogService) {
	mux.HandleFunc("GET /healthz", HandleHealthz)

	ah := NewAssetHandler(assets)
	mux.HandleFunc("POST /available-images", ah.HandleUpload)
	mux.HandleFunc("GET /available-images", ah.HandleListAvailable)
	mux.HandleFunc("GET /available-images/{id}/file", ah.HandleServeAvailable)
	mux.HandleFunc("DELETE /available-images/{id}", ah.HandleDeleteAvailable)
	mux.HandleFunc("POST /available-images/{id}/attach", ah.HandleAttach)

	mux.HandleFunc("POST /attached-images/{id}/detach", ah.HandleDetach)
	mux.HandleFunc("POST /attached-images/{id}/move-up", ah.HandleMoveUp)
	mux.HandleFunc("POST /attached-images/{id}/move-down", ah.HandleMoveDown)
	mux.HandleFunc("GET /attached-images/{id}/file", ah.HandleServeAttached)
	mux.HandleFunc("DELETE /attached-images/{id}", ah.HandleDeleteAttached)

	mux.HandleFunc("GET /owners/{type}/{id}/images", ah.HandleListByOwner)
	mux.HandleFunc("POST /owners/{type}/{id}/images/tighten", ah.HandleTighten)

	ch := NewCatalogHandler(catalog)
	mux.HandleFunc("POST /items", ch.HandleCreateItem)
	mux.HandleFunc("GET /items", ch.HandleListItems)
	mux.HandleFunc("GET /items/{id}", ch.HandleGetItem)
	mux.HandleFunc("PUT /items/{id}", ch.HandleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", ch.HandleDeleteItem)
	mux.HandleFunc("POST /items/{id}/details", ch.HandleCreateItemDetail)
	mux.HandleFunc("GET /items/{id}/details", ch.HandleListItemDetails)
	mux.HandleFunc("PUT /details/{id}", ch.HandleUpdateItemDetail)
	mux.HandleFunc("DELETE /details/{id}", ch.HandleDeleteItemDetail)

	mux.HandleFunc("POST /collections", ch.HandleCreateCollection)
	mux.HandleFunc("GET /collections", ch.HandleListCollections)
	mux.HandleFunc("GET /collections/{id}", ch.HandleGetCollection)
	mux.HandleFunc("PUT /collections/{id}", ch.HandleUpdateCollection)
	mux.HandleFunc("DELETE /collections/{id}", ch.HandleDeleteCollection)

	mux.HandleFunc("POST /partners", ch.HandleCreatePartner)
	mux.HandleFunc("GET /partners", ch.HandleListPartners)
	mux.HandleFunc("GET /partners/{id}", ch.HandleGetPartner)
	mux.HandleFunc("PUT /partners/{id}", ch.HandleUpdatePartner)
	mux.HandleFunc("DELETE /partners/{id}", ch.HandleDeletePartner)
}
