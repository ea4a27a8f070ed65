package booking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

const (
	EventBookingRequested = "booking.requested"
	EventEnquiryReceived  = "enquiry.received"
)

// Notifier forwards accepted bookings and enquiries to the sales team.
type Notifier interface {
	Notify(ctx context.Context, eventType, id string, payload any) error
}

// Service keeps accepted requests in memory. A failed notification is logged
// and does not undo the request.
type Service struct {
	mu        sync.Mutex
	bookings  []Booking
	enquiries []Enquiry

	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		notifier: notifier,
		logger:   logger.With("component", "booking"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Book validates req for l and records it. Stays that overlap an earlier
// booking of the same listing are refused with ErrDatesUnavailable.
func (s *Service) Book(ctx context.Context, l domain.Listing, req Request) (Booking, error) {
	b, err := req.Validate(l)
	if err != nil {
		return Booking{}, err
	}

	s.mu.Lock()
	for _, existing := range s.bookings {
		if b.overlaps(existing) {
			s.mu.Unlock()
			return Booking{}, &ValidationError{Err: ErrDatesUnavailable, Fields: []string{"check_in", "check_out"}}
		}
	}
	b.ID = "bk_" + uuid.NewString()
	b.CreatedAt = s.now()
	s.bookings = append(s.bookings, b)
	s.mu.Unlock()

	s.logger.Info("booking requested", "booking_id", b.ID, "listing_id", b.ListingID, "nights", b.Nights, "guests", b.Guests)
	s.notify(ctx, EventBookingRequested, b.ID, b)
	return b, nil
}

// Enquire validates and records a contact enquiry. The caller checks that the
// listing exists.
func (s *Service) Enquire(ctx context.Context, req EnquiryRequest) (Enquiry, error) {
	e, err := req.Validate()
	if err != nil {
		return Enquiry{}, err
	}

	s.mu.Lock()
	e.ID = "enq_" + uuid.NewString()
	e.CreatedAt = s.now()
	s.enquiries = append(s.enquiries, e)
	s.mu.Unlock()

	s.logger.Info("enquiry received", "enquiry_id", e.ID, "listing_id", e.ListingID)
	s.notify(ctx, EventEnquiryReceived, e.ID, e)
	return e, nil
}

// Bookings returns the bookings recorded for a listing, oldest first.
func (s *Service) Bookings(listingID int64) []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Booking{}
	for _, b := range s.bookings {
		if b.ListingID == listingID {
			out = append(out, b)
		}
	}
	return out
}

func (s *Service) notify(ctx context.Context, eventType, id string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, eventType, id, payload); err != nil {
		s.logger.Warn("notification failed", "event", eventType, "id", id, "error", err)
	}
}
