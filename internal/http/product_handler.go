package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
	"github.com/fjod/go_cart/storefront-service/internal/filter"
	"github.com/fjod/go_cart/storefront-service/internal/pricing"
	"github.com/fjod/go_cart/storefront-service/pkg/logger"
)

// CatalogProvider exposes the published catalog, if any.
type CatalogProvider interface {
	Current() (*domain.Catalog, bool)
}

type ProductHandler struct {
	catalog       CatalogProvider
	featuredCount int
	logger        *zap.Logger
}

func NewProductHandler(catalog CatalogProvider, featuredCount int, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{
		catalog:       catalog,
		featuredCount: featuredCount,
		logger:        logger,
	}
}

type ProductDTO struct {
	ID           domain.ProductID `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Image        string           `json:"image"`
	Price        float64          `json:"price"`
	DisplayPrice string           `json:"display_price"`
	Sizes        []string         `json:"sizes,omitempty"`
	Colors       []string         `json:"colors,omitempty"`
}

type ProductListResponse struct {
	Products []ProductDTO `json:"products"`
	Count    int          `json:"count"`
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Image:        p.Image,
		Price:        p.Price,
		DisplayPrice: pricing.Format(p.Price),
		Sizes:        p.Sizes,
		Colors:       p.Colors,
	}
}

func toProductList(products []domain.Product) ProductListResponse {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return ProductListResponse{Products: out, Count: len(out)}
}

// ListProducts filters the standard collection by the category, maxPrice,
// size and color query parameters.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog.Current()
	if !ok {
		respondCatalogUnavailable(w)
		return
	}

	criteria := filter.ParseCriteria(r.URL.Query())
	products := filter.Filter(c.Standard, criteria)
	logger.FromContext(r.Context(), h.logger).Debug("products filtered",
		zap.String("category", criteria.Category),
		zap.Float64("max_price", criteria.MaxPrice),
		zap.String("size", criteria.Size),
		zap.String("color", criteria.Color),
		zap.Int("matched", len(products)))

	respondJSON(w, http.StatusOK, toProductList(products))
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog.Current()
	if !ok {
		respondCatalogUnavailable(w)
		return
	}
	respondJSON(w, http.StatusOK, toProductList(filter.Featured(c.Standard, h.featuredCount, nil)))
}

// Exclusive lists the exclusive collection. It is never filtered.
func (h *ProductHandler) Exclusive(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog.Current()
	if !ok {
		respondCatalogUnavailable(w)
		return
	}
	respondJSON(w, http.StatusOK, toProductList(c.Exclusive))
}

func (h *ProductHandler) Facets(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog.Current()
	if !ok {
		respondCatalogUnavailable(w)
		return
	}
	respondJSON(w, http.StatusOK, filter.BuildFacets(c.Standard))
}
