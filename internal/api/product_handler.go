package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ironfitwear/storefront/internal/application/catalog"
	"github.com/ironfitwear/storefront/internal/domain/product"
)

type productHandler struct {
	catalog *catalog.Service
}

func (h *productHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.catalog.Search(r.Context(), product.Filter{
		Keyword:  q.Get("keyword"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductViews(products))
}

func (h *productHandler) top(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Top(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductViews(products))
}

func (h *productHandler) getBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductView(p))
}

func (h *productHandler) getByID(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductView(p))
}

type productRequest struct {
	Name          string   `json:"name"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	CountInStock  *int     `json:"countInStock"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	Tags          []string `json:"tags"`
}

func (req *productRequest) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name:          req.Name,
		Image:         req.Image,
		Images:        req.Images,
		Brand:         req.Brand,
		Category:      req.Category,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CountInStock:  req.CountInStock,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Tags:          req.Tags,
	}
}

func (h *productHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.catalog.Create(r.Context(), req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProductView(p))
}

func (h *productHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductView(p))
}

func (h *productHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product removed"})
}
