// Package booking validates and records viewing/stay requests and contact
// enquiries made against catalog listings.
package booking

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidDates     = errors.New("invalid booking dates")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidGuests    = errors.New("invalid guest count")
	ErrCapacityExceeded = errors.New("guest count exceeds capacity")
	ErrDatesUnavailable = errors.New("dates overlap an existing booking")
)

// ValidationError carries the offending fields, or the capacity that was
// exceeded. errors.Is matches it against the sentinel in Err.
type ValidationError struct {
	Err      error
	Fields   []string
	Capacity int
}

func (e *ValidationError) Error() string {
	switch {
	case len(e.Fields) > 0:
		return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.Fields, ", "))
	case e.Capacity > 0:
		return fmt.Sprintf("%v: up to %d guests", e.Err, e.Capacity)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DateLayout is the wire format of check-in and check-out dates.
const DateLayout = "2006-01-02"

const StatusRequested = "requested"

type Request struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type Booking struct {
	ID        string    `json:"id"`
	ListingID int64     `json:"listing_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Nights    int       `json:"nights"`
	Guests    int       `json:"guests"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Capacity is two guests per bedroom, and at least one.
func Capacity(l domain.Listing) int {
	if l.Beds <= 0 {
		return 1
	}
	return l.Beds * 2
}

// Validate checks req against l and returns the normalized booking without
// an id. Guests defaults to 1.
func (req Request) Validate(l domain.Listing) (Booking, error) {
	b := Booking{
		ListingID: l.ID,
		Guests:    req.Guests,
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Status:    StatusRequested,
	}
	checkIn := strings.TrimSpace(req.CheckIn)
	checkOut := strings.TrimSpace(req.CheckOut)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"check_in", checkIn},
		{"check_out", checkOut},
		{"full_name", b.FullName},
		{"email", b.Email},
		{"phone", b.Phone},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Booking{}, &ValidationError{Err: ErrMissingFields, Fields: missing}
	}

	if err := checkEmail(b.Email); err != nil {
		return Booking{}, err
	}

	var err error
	if b.CheckIn, err = time.Parse(DateLayout, checkIn); err != nil {
		return Booking{}, &ValidationError{Err: ErrInvalidDates, Fields: []string{"check_in"}}
	}
	if b.CheckOut, err = time.Parse(DateLayout, checkOut); err != nil {
		return Booking{}, &ValidationError{Err: ErrInvalidDates, Fields: []string{"check_out"}}
	}
	if !b.CheckOut.After(b.CheckIn) {
		return Booking{}, &ValidationError{Err: ErrInvalidDates, Fields: []string{"check_out"}}
	}
	b.Nights = int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)

	if b.Guests == 0 {
		b.Guests = 1
	}
	if b.Guests < 0 {
		return Booking{}, &ValidationError{Err: ErrInvalidGuests, Fields: []string{"guests"}}
	}
	if capacity := Capacity(l); b.Guests > capacity {
		return Booking{}, &ValidationError{Err: ErrCapacityExceeded, Capacity: capacity}
	}
	return b, nil
}

// overlaps treats stays as half-open [CheckIn, CheckOut) so that one guest can
// check out the day the next checks in.
func (b Booking) overlaps(o Booking) bool {
	return b.ListingID == o.ListingID && b.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(b.CheckOut)
}

type EnquiryRequest struct {
	ListingID int64  `json:"listing_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

type Enquiry struct {
	ID        string    `json:"id"`
	ListingID int64     `json:"listing_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate requires every contact field and returns the trimmed enquiry
// without an id.
func (req EnquiryRequest) Validate() (Enquiry, error) {
	e := Enquiry{
		ListingID: req.ListingID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   strings.TrimSpace(req.Message),
	}

	var missing []string
	if e.ListingID <= 0 {
		missing = append(missing, "listing_id")
	}
	for _, f := range []struct{ name, value string }{
		{"name", e.Name},
		{"email", e.Email},
		{"phone", e.Phone},
		{"message", e.Message},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Enquiry{}, &ValidationError{Err: ErrMissingFields, Fields: missing}
	}
	if err := checkEmail(e.Email); err != nil {
		return Enquiry{}, err
	}
	return e, nil
}

func checkEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return &ValidationError{Err: ErrInvalidEmail, Fields: []string{"email"}}
	}
	return nil
}
