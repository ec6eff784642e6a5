package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/catalog"
)

type catalogResponse struct {
	MinOrderValue string                  `json:"minOrderValue"`
	Categories    []catalog.CategoryItems `json:"categories"`
}

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		MinOrderValue: catalog.MinOrderValue.StringFixed(2),
		Categories:    catalog.Sections(),
	})
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category := catalog.Category(chi.URLParam(r, "category"))
	items, err := catalog.Items(category)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.CategoryItems{Category: category, Items: items})
}

func (h *Handler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	items := catalog.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
