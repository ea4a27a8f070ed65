package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CongoMusahAdama/rrate/internal/booking"
)

type validationBody struct {
	Error    string   `json:"error"`
	Fields   []string `json:"fields,omitempty"`
	Capacity int      `json:"capacity,omitempty"`
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *booking.ValidationError
	if !errors.As(err, &verr) {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	status, code := http.StatusUnprocessableEntity, "invalid_request"
	switch {
	case errors.Is(err, booking.ErrMissingFields):
		code = "missing_fields"
	case errors.Is(err, booking.ErrInvalidDates):
		code = "invalid_dates"
	case errors.Is(err, booking.ErrInvalidEmail):
		code = "invalid_email"
	case errors.Is(err, booking.ErrInvalidGuests):
		code = "invalid_guests"
	case errors.Is(err, booking.ErrCapacityExceeded):
		code = "capacity_exceeded"
	case errors.Is(err, booking.ErrDatesUnavailable):
		status, code = http.StatusConflict, "dates_unavailable"
	}
	writeJSON(w, status, validationBody{Error: code, Fields: verr.Fields, Capacity: verr.Capacity})
}

func (s *Server) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req booking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	l, found, err := s.Catalog.ByID(r.Context(), id)
	if err != nil {
		s.Logger.Error("lookup listing", "listing_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	b, err := s.Bookings.Book(r.Context(), l, req)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleEnquiryCreate(w http.ResponseWriter, r *http.Request) {
	var req booking.EnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if req.ListingID > 0 {
		_, found, err := s.Catalog.ByID(r.Context(), req.ListingID)
		if err != nil {
			s.Logger.Error("lookup listing", "listing_id", req.ListingID, "error", err)
			writeError(w, http.StatusInternalServerError, "catalog_unavailable")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
	}

	e, err := s.Bookings.Enquire(r.Context(), req)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}
