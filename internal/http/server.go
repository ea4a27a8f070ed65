package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/CongoMusahAdama/rrate/internal/booking"
	"github.com/CongoMusahAdama/rrate/internal/cart"
	"github.com/CongoMusahAdama/rrate/internal/checkout"
	"github.com/CongoMusahAdama/rrate/internal/domain"
	"github.com/CongoMusahAdama/rrate/internal/filter"
	"github.com/CongoMusahAdama/rrate/internal/pagination"
	"github.com/CongoMusahAdama/rrate/internal/storage"
)

const (
	sessionHeader = "X-Cart-Session"
	traceHeader   = "X-Trace-ID"
	maxPageSize   = 100
)

type Server struct {
	Catalog  storage.Catalog
	Carts    *cart.Registry
	Checkout *checkout.Service
	Bookings *booking.Service
	Logger   *slog.Logger

	Bands       []filter.Band
	PageSize    int
	Currency    string
	CORSOrigins []string
}

func NewServer(catalog storage.Catalog, carts *cart.Registry, co *checkout.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Catalog:     catalog,
		Carts:       carts,
		Checkout:    co,
		Bookings:    booking.NewService(nil, logger),
		Logger:      logger,
		Bands:       filter.DefaultBands(),
		PageSize:    pagination.DefaultPageSize,
		Currency:    domain.DefaultCurrency,
		CORSOrigins: []string{"*"},
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		LoggerMiddleware(s.Logger),
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: s.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", sessionHeader, traceHeader},
			ExposedHeaders: []string{sessionHeader, traceHeader},
			MaxAge:         300,
		}),
	)

	r.Get("/health", s.handleHealth)
	r.Get("/price-bands", s.handlePriceBands)

	r.Get("/listings", s.handleListings)
	r.Get("/listings/{id}", s.handleListingByID)
	r.Post("/listings/{id}/bookings", s.handleBookingCreate)
	r.Post("/enquiries", s.handleEnquiryCreate)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.handleCartGet)
		r.Delete("/", s.handleCartClear)
		r.Post("/items", s.handleCartAdd)
		r.Delete("/items/{id}", s.handleCartRemove)
	})
	r.Post("/checkout", s.handleCheckout)

	return r
}

// HTTPServer wraps Routes in an http.Server with sane timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePriceBands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]filter.Band{"bands": s.Bands})
}

type listingView struct {
	domain.Listing
	PriceDisplay string `json:"price_display"`
}

func viewOf(l domain.Listing) listingView {
	return listingView{Listing: l, PriceDisplay: domain.FormatMoney(l.Price)}
}

func viewsOf(ls []domain.Listing) []listingView {
	out := make([]listingView, 0, len(ls))
	for _, l := range ls {
		out = append(out, viewOf(l))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
