package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

// Apply returns the listings that satisfy every non-empty constraint of spec,
// in input order. The input slice is not modified. No match yields an empty,
// non-nil slice.
func Apply(listings []domain.Listing, spec domain.FilterSpec) []domain.Listing {
	m := newMatcher(spec)
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if m.match(l) {
			out = append(out, l)
		}
	}
	return out
}

type matcher struct {
	fold     cases.Caser
	location string
	kind     string
	price    *domain.PriceRange
}

// A Caser is stateful, so each matcher owns one.
func newMatcher(spec domain.FilterSpec) *matcher {
	m := &matcher{fold: cases.Fold(), price: spec.PriceRange}
	if loc := strings.TrimSpace(spec.Location); loc != "" {
		m.location = m.fold.String(loc)
	}
	if kind := strings.TrimSpace(spec.PropertyType); kind != "" {
		m.kind = m.fold.String(kind)
	}
	return m
}

func (m *matcher) match(l domain.Listing) bool {
	if m.location != "" &&
		!strings.Contains(m.fold.String(l.Location), m.location) &&
		!strings.Contains(m.fold.String(l.Name), m.location) {
		return false
	}
	if m.kind != "" && m.fold.String(strings.TrimSpace(l.Type)) != m.kind {
		return false
	}
	if m.price != nil && !m.price.Contains(l.Price.Amount) {
		return false
	}
	return true
}
