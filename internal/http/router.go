package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/middleware"
)

const requestTimeout = 10 * time.Second

func NewRouter(h *Handler, allowOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logging(h.logger))
	r.Use(middleware.Recover(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderCorrelationID, middleware.HeaderSessionID},
		ExposedHeaders: []string{middleware.HeaderCorrelationID, middleware.HeaderSessionID},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.ListCatalog)
			r.Get("/search", h.SearchCatalog)
			r.Get("/{category}", h.GetCategory)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionID)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddCartItem)
				r.Put("/items/{itemId}", h.SetCartItemQuantity)
				r.Delete("/items/{itemId}", h.RemoveCartItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", h.BeginCheckout)
				r.Get("/", h.GetCheckout)
				r.Put("/details", h.SaveCheckoutDetails)
				r.Post("/next", h.NextCheckoutStep)
				r.Post("/back", h.PreviousCheckoutStep)
				r.Get("/slots", h.ListSlots)
				r.Put("/slot", h.SelectSlot)
				r.Post("/place", h.PlaceOrder)
			})

			r.Get("/orders/last", h.LastOrder)
		})

		r.Get("/orders/{orderId}", h.GetOrder)
		r.Get("/orders/customer/{phone}", h.ListCustomerOrders)
	})

	return r
}
