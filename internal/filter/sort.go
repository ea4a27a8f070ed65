package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

var ErrUnknownSortOrder = errors.New("unknown sort order")

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortNewest    SortOrder = "newest"
	SortBeds      SortOrder = "beds"
)

// ParseSortOrder accepts the API names and the search form's aliases.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "default":
		return SortNone, nil
	case "price_asc", "price-low":
		return SortPriceAsc, nil
	case "price_desc", "price-high":
		return SortPriceDesc, nil
	case "newest":
		return SortNewest, nil
	case "beds":
		return SortBeds, nil
	}
	return SortNone, fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
}

// Sort returns a sorted copy of listings. Ties keep their input order.
func Sort(listings []domain.Listing, order SortOrder) []domain.Listing {
	out := append([]domain.Listing(nil), listings...)
	if out == nil {
		out = []domain.Listing{}
	}

	var less func(a, b domain.Listing) bool
	switch order {
	case SortPriceAsc:
		less = func(a, b domain.Listing) bool { return a.Price.Amount < b.Price.Amount }
	case SortPriceDesc:
		less = func(a, b domain.Listing) bool { return a.Price.Amount > b.Price.Amount }
	case SortNewest:
		less = func(a, b domain.Listing) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortBeds:
		less = func(a, b domain.Listing) bool { return a.Beds > b.Beds }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
