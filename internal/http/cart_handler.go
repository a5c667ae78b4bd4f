package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/storefront-service/internal/cart"
	"github.com/fjod/go_cart/storefront-service/internal/domain"
	"github.com/fjod/go_cart/storefront-service/internal/pricing"
	"github.com/fjod/go_cart/storefront-service/internal/session"
	"github.com/fjod/go_cart/storefront-service/pkg/logger"
)

type CartService interface {
	Cart(ctx context.Context, sessionID string) (session.CartView, error)
	AddItem(ctx context.Context, sessionID string, productID domain.ProductID) (session.CartView, bool, error)
	RemoveItem(ctx context.Context, sessionID string, productID domain.ProductID) (session.CartView, bool, error)
	Checkout(ctx context.Context, sessionID string) (cart.Receipt, error)
}

type CartHandler struct {
	carts       CartService
	catalog     CatalogProvider
	timeout     time.Duration
	maxBodySize int64
	logger      *zap.Logger
}

func NewCartHandler(carts CartService, catalog CatalogProvider, timeout time.Duration, maxBodySize int64, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{
		carts:       carts,
		catalog:     catalog,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

type AddItemRequestDTO struct {
	ProductID domain.ProductID `json:"product_id"`
}

type CartLineDTO struct {
	ProductID    domain.ProductID `json:"product_id"`
	Name         string           `json:"name"`
	Image        string           `json:"image"`
	Price        float64          `json:"price"`
	DisplayPrice string           `json:"display_price"`
	Quantity     int              `json:"quantity"`
	Subtotal     string           `json:"subtotal"`
}

type CartResponse struct {
	Lines     []CartLineDTO `json:"lines"`
	ItemCount int           `json:"item_count"`
	Total     string        `json:"total"`
	Currency  string        `json:"currency"`
}

type CartMutationResponse struct {
	Cart    CartResponse `json:"cart"`
	Changed bool         `json:"changed"`
}

type CheckoutResponse struct {
	OrderID   string        `json:"order_id"`
	Lines     []CartLineDTO `json:"lines"`
	ItemCount int           `json:"item_count"`
	Total     string        `json:"total"`
	Currency  string        `json:"currency"`
	PlacedAt  time.Time     `json:"placed_at"`
	Message   string        `json:"message"`
}

func toLineDTOs(lines []domain.CartLine) []CartLineDTO {
	out := make([]CartLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartLineDTO{
			ProductID:    l.ProductID,
			Name:         l.Name,
			Image:        l.Image,
			Price:        l.Price,
			DisplayPrice: pricing.Format(l.Price),
			Quantity:     l.Quantity,
			Subtotal:     pricing.FormatTotal(pricing.LineTotal(l.Price, l.Quantity)),
		})
	}
	return out
}

func toCartResponse(v session.CartView) CartResponse {
	return CartResponse{
		Lines:     toLineDTOs(v.Lines),
		ItemCount: v.ItemCount,
		Total:     pricing.FormatTotal(v.Total),
		Currency:  pricing.CurrencyCode,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.carts.Cart(ctx, getSessionID(r.Context()))
	if err != nil {
		respondInternal(w, logger.FromContext(ctx, h.logger), "get cart failed", err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(view))
}

// AddItem puts one unit of a product into the cart. Unknown products leave
// the cart unchanged and are reported with changed=false, not as an error.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, ok := h.catalog.Current(); !ok {
		respondCatalogUnavailable(w)
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	view, added, err := h.carts.AddItem(ctx, getSessionID(r.Context()), req.ProductID)
	if err != nil {
		respondInternal(w, logger.FromContext(ctx, h.logger), "add item failed", err)
		return
	}
	respondJSON(w, http.StatusOK, CartMutationResponse{Cart: toCartResponse(view), Changed: added})
}

// RemoveItem drops the whole line. Removing a product that is not in the
// cart is not an error; changed is false in that case.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := domain.ProductID(chi.URLParam(r, "product_id"))
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	view, removed, err := h.carts.RemoveItem(ctx, getSessionID(r.Context()), productID)
	if err != nil {
		respondInternal(w, logger.FromContext(ctx, h.logger), "remove item failed", err)
		return
	}
	respondJSON(w, http.StatusOK, CartMutationResponse{Cart: toCartResponse(view), Changed: removed})
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	receipt, err := h.carts.Checkout(ctx, getSessionID(r.Context()))
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "your cart is empty")
			return
		}
		respondInternal(w, logger.FromContext(ctx, h.logger), "checkout failed", err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponse{
		OrderID:   receipt.ID,
		Lines:     toLineDTOs(receipt.Lines),
		ItemCount: receipt.ItemCount,
		Total:     pricing.FormatTotal(receipt.Total),
		Currency:  pricing.CurrencyCode,
		PlacedAt:  receipt.PlacedAt,
		Message:   "Thank you for your purchase!",
	})
}
