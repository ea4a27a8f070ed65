package filter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

func sampleListings() []domain.Listing {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	return []domain.Listing{
		{ID: 1, Name: "Luxury Villa", Price: domain.ParseMoney("₵2,500,000"), Type: "Villa", Location: "East Legon, Accra", Beds: 5, CreatedAt: day(1)},
		{ID: 2, Name: "Family House", Price: domain.ParseMoney("₵950,000"), Type: "House", Location: "Tema, Greater Accra", Beds: 4, CreatedAt: day(5)},
		{ID: 3, Name: "Airport Penthouse", Price: domain.ParseMoney("₵1,800,000"), Type: "Penthouse", Location: "Airport Residential", Beds: 3, CreatedAt: day(3)},
		{ID: 4, Name: "Cantonments Apartment", Price: domain.ParseMoney("₵1,200,000"), Type: "Apartment", Location: "Accra", Beds: 2, CreatedAt: day(2)},
		{ID: 5, Name: "Kumasi House", Price: domain.ParseMoney("₵850,000"), Type: "house", Location: "Kumasi", Beds: 3, CreatedAt: day(4)},
	}
}

func ids(ls []domain.Listing) []int64 {
	out := make([]int64, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

func TestApplyClosedPriceRange(t *testing.T) {
	listings := sampleListings()[:2]
	got := Apply(listings, domain.FilterSpec{PriceRange: domain.Between(0, 1000000)})
	assert.Equal(t, []int64{2}, ids(got))
}

func TestApplyOpenEndedRange(t *testing.T) {
	got := Apply(sampleListings(), domain.FilterSpec{PriceRange: domain.AtLeast(1200000)})
	assert.Equal(t, []int64{1, 3, 4}, ids(got))
}

func TestApplyNoMatchIsEmpty(t *testing.T) {
	got := Apply(sampleListings(), domain.FilterSpec{PropertyType: "condo"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyLocationMatchesNameOrLocation(t *testing.T) {
	got := Apply(sampleListings(), domain.FilterSpec{Location: "ACCRA"})
	assert.Equal(t, []int64{1, 2, 4}, ids(got))

	got = Apply(sampleListings(), domain.FilterSpec{Location: "penthouse"})
	assert.Equal(t, []int64{3}, ids(got))
}

func TestApplyTypeIsExactCaseInsensitive(t *testing.T) {
	got := Apply(sampleListings(), domain.FilterSpec{PropertyType: "HOUSE"})
	assert.Equal(t, []int64{2, 5}, ids(got))

	got = Apply(sampleListings(), domain.FilterSpec{PropertyType: "Hous"})
	assert.Empty(t, got)
}

func TestApplyEmptySpecMatchesAll(t *testing.T) {
	got := Apply(sampleListings(), domain.FilterSpec{Location: "   "})
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(got))
}

func matchesAlone(l domain.Listing, spec domain.FilterSpec) bool {
	return len(Apply([]domain.Listing{l}, spec)) == 1
}

func TestApplyConjunction(t *testing.T) {
	listings := sampleListings()
	specs := []domain.FilterSpec{
		{Location: "accra", PropertyType: "house"},
		{Location: "accra", PriceRange: domain.Between(1000000, 2000000)},
		{PropertyType: "house", PriceRange: domain.Between(0, 900000)},
		{Location: "kumasi", PropertyType: "villa", PriceRange: domain.AtLeast(0)},
	}

	for _, spec := range specs {
		got := Apply(listings, spec)
		inResult := map[int64]bool{}
		for _, id := range ids(got) {
			inResult[id] = true
		}
		for _, l := range listings {
			each := matchesAlone(l, domain.FilterSpec{Location: spec.Location}) &&
				matchesAlone(l, domain.FilterSpec{PropertyType: spec.PropertyType}) &&
				matchesAlone(l, domain.FilterSpec{PriceRange: spec.PriceRange})
			assert.Equal(t, each, inResult[l.ID], "listing %d spec %+v", l.ID, spec)
		}
	}
}

func TestApplyIsIdempotentAndPure(t *testing.T) {
	listings := sampleListings()
	before := append([]domain.Listing(nil), listings...)
	spec := domain.FilterSpec{Location: "a", PriceRange: domain.AtLeast(900000)}

	first := Apply(listings, spec)
	second := Apply(listings, spec)
	assert.Equal(t, first, second)
	assert.Equal(t, before, listings)
}

func TestSortOrders(t *testing.T) {
	listings := sampleListings()
	assert.Equal(t, []int64{5, 2, 4, 3, 1}, ids(Sort(listings, SortPriceAsc)))
	assert.Equal(t, []int64{1, 3, 4, 2, 5}, ids(Sort(listings, SortPriceDesc)))
	assert.Equal(t, []int64{2, 5, 3, 4, 1}, ids(Sort(listings, SortNewest)))
	assert.Equal(t, []int64{1, 2, 3, 5, 4}, ids(Sort(listings, SortBeds)))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(Sort(listings, SortNone)))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(listings), "input reordered")
	assert.NotNil(t, Sort(nil, SortBeds))
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("price-low")
	require.NoError(t, err)
	assert.Equal(t, SortPriceAsc, o)

	o, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortNone, o)

	_, err = ParseSortOrder("rating")
	assert.ErrorIs(t, err, ErrUnknownSortOrder)
}

func TestLoadBandsFromFile(t *testing.T) {
	dir := t.TempDir()

	bands, err := LoadBandsFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	assert.Equal(t, DefaultBands(), bands)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"value":"lots","label":"x"}]`), 0o644))
	bands, err = LoadBandsFromFile(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidPriceRange)
	assert.Equal(t, DefaultBands(), bands)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[{"value":"0-100","label":"tiny"},{"value":"100+","label":"more"}]`), 0o644))
	bands, err = LoadBandsFromFile(good)
	require.NoError(t, err)
	require.Len(t, bands, 2)
	r, err := bands[1].Range()
	require.NoError(t, err)
	assert.True(t, r.OpenEnded)
}

func TestDefaultBandsParse(t *testing.T) {
	for _, b := range DefaultBands() {
		r, err := b.Range()
		require.NoError(t, err, b.Value)
		require.NotNil(t, r)
	}
}
