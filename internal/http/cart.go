package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CongoMusahAdama/rrate/internal/cart"
	"github.com/CongoMusahAdama/rrate/internal/checkout"
	"github.com/CongoMusahAdama/rrate/internal/domain"
)

type CartSummary struct {
	SessionID    string        `json:"session_id"`
	Count        int           `json:"count"`
	Total        domain.Money  `json:"total"`
	TotalDisplay string        `json:"total_display"`
	Items        []listingView `json:"items"`
	Added        *bool         `json:"added,omitempty"`
	Removed      *bool         `json:"removed,omitempty"`
}

// summarize reports one snapshot so count, total and items always agree.
func summarize(sessionID string, c *cart.Cart) CartSummary {
	snap := c.Snapshot()
	return CartSummary{
		SessionID:    sessionID,
		Count:        len(snap.Items),
		Total:        snap.Total,
		TotalDisplay: domain.FormatMoney(snap.Total),
		Items:        viewsOf(snap.Items),
	}
}

func (s *Server) emptySummary() CartSummary {
	total := domain.Money{Currency: s.currency()}
	return CartSummary{Total: total, TotalDisplay: domain.FormatMoney(total), Items: []listingView{}}
}

// sessionCart resolves the caller's cart for an add, opening a new session
// when the header is missing or unknown.
func (s *Server) sessionCart(w http.ResponseWriter, r *http.Request) (string, *cart.Cart) {
	id, c := s.Carts.GetOrCreate(r.Header.Get(sessionHeader))
	w.Header().Set(sessionHeader, id)
	return id, c
}

// existingCart resolves the caller's cart without opening a session.
func (s *Server) existingCart(w http.ResponseWriter, r *http.Request) (string, *cart.Cart, bool) {
	id := r.Header.Get(sessionHeader)
	c, ok := s.Carts.Get(id)
	if !ok {
		return "", nil, false
	}
	w.Header().Set(sessionHeader, id)
	return id, c, true
}

func (s *Server) handleCartGet(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.existingCart(w, r)
	if !ok {
		writeJSON(w, http.StatusOK, s.emptySummary())
		return
	}
	writeJSON(w, http.StatusOK, summarize(id, c))
}

type addItemRequest struct {
	ListingID int64 `json:"listing_id"`
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.ListingID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	l, found, err := s.Catalog.ByID(r.Context(), req.ListingID)
	if err != nil {
		s.Logger.Error("lookup listing", "listing_id", req.ListingID, "error", err)
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	id, c := s.sessionCart(w, r)
	added := c.Add(l)
	out := summarize(id, c)
	out.Added = &added
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	removed := false
	out := s.emptySummary()
	if id, c, ok := s.existingCart(w, r); ok {
		removed = c.Remove(listingID)
		out = summarize(id, c)
	}
	out.Removed = &removed
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.existingCart(w, r)
	if !ok {
		writeJSON(w, http.StatusOK, s.emptySummary())
		return
	}
	c.Clear()
	writeJSON(w, http.StatusOK, summarize(id, c))
}

type checkoutRequest struct {
	Email string `json:"email"`
}

type CheckoutResponse struct {
	Receipt checkout.Receipt `json:"receipt"`
	Cart    CartSummary      `json:"cart"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	id, c, ok := s.existingCart(w, r)
	if !ok {
		writeError(w, http.StatusConflict, "empty_cart")
		return
	}

	receipt, err := s.Checkout.Checkout(r.Context(), c, req.Email)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, "empty_cart")
		return
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		writeError(w, http.StatusConflict, "checkout_in_progress")
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, "payment_failed")
		return
	}

	// a drained cart ends its session
	out := summarize(id, c)
	if out.Count == 0 {
		s.Carts.Delete(id)
		w.Header().Del(sessionHeader)
		out.SessionID = ""
	}
	writeJSON(w, http.StatusOK, CheckoutResponse{Receipt: receipt, Cart: out})
}

func (s *Server) currency() string {
	if s.Currency != "" {
		return s.Currency
	}
	return domain.DefaultCurrency
}
