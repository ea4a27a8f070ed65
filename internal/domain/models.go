package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultCurrency is used when a price carries no recognizable currency marker.
const DefaultCurrency = "GHS"

// Money is an amount in minor units (pesewas, cents) plus an ISO-4217 code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Major returns the amount in major units.
func (m Money) Major() float64 {
	return float64(m.Amount) / 100
}

func (m Money) String() string {
	return FormatMoney(m)
}

// UnmarshalJSON accepts either {"amount":..,"currency":..} or a display
// string such as "₵2,500,000". Unparseable strings decode to a zero amount.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode price text: %w", err)
		}
		*m = ParseMoney(s)
		return nil
	}

	type plain Money
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("decode price: %w", err)
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	*m = Money(p)
	return nil
}

type Listing struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     Money     `json:"price"`
	Location  string    `json:"location"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Beds      int       `json:"beds"`
	Baths     int       `json:"baths"`
	Area      float64   `json:"area"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// PriceRange bounds are in minor units and inclusive.
// When OpenEnded is set, Max is ignored.
type PriceRange struct {
	Min       int64 `json:"min"`
	Max       int64 `json:"max,omitempty"`
	OpenEnded bool  `json:"open_ended,omitempty"`
}

// Between builds a closed range from major-unit bounds.
func Between(minMajor, maxMajor int64) *PriceRange {
	return &PriceRange{Min: minMajor * 100, Max: maxMajor * 100}
}

// AtLeast builds an open-ended range from a major-unit lower bound.
func AtLeast(minMajor int64) *PriceRange {
	return &PriceRange{Min: minMajor * 100, OpenEnded: true}
}

func (r PriceRange) Contains(amount int64) bool {
	if amount < r.Min {
		return false
	}
	return r.OpenEnded || amount <= r.Max
}

// FilterSpec holds optional search constraints. Empty strings and a nil
// PriceRange mean "no constraint".
type FilterSpec struct {
	Location     string      `json:"location,omitempty"`
	PropertyType string      `json:"property_type,omitempty"`
	PriceRange   *PriceRange `json:"price_range,omitempty"`
}

// CartSnapshot is the cart state handed to a checkout collaborator.
type CartSnapshot struct {
	Items      []Listing `json:"items"`
	Total      Money     `json:"total"`
	CapturedAt time.Time `json:"captured_at"`
}
