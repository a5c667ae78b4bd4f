package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/storefront-service/internal/session"
)

type RouterConfig struct {
	Catalog            CatalogProvider
	Sessions           *session.Manager
	Logger             *zap.Logger
	FeaturedCount      int
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

func NewRouter(cfg RouterConfig) chi.Router {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	products := NewProductHandler(cfg.Catalog, cfg.FeaturedCount, log)
	carts := NewCartHandler(cfg.Sessions, cfg.Catalog, timeout, cfg.MaxRequestBodySize, log)
	auth := NewAuthHandler(cfg.Sessions, timeout, cfg.MaxRequestBodySize, log)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, loaded := cfg.Catalog.Current()
		respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "catalog": loaded})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Get("/featured", products.Featured)
			r.Get("/exclusive", products.Exclusive)
			r.Get("/facets", products.Facets)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Post("/items", carts.AddItem)
			r.Delete("/items/{product_id}", carts.RemoveItem)
			r.Post("/checkout", carts.Checkout)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)
		})
	})

	return r
}
