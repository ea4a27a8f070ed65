package filter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

// Band is one preset of the search form's price selector.
type Band struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Range parses the band value into a price range.
func (b Band) Range() (*domain.PriceRange, error) {
	return domain.ParsePriceRange(b.Value)
}

// DefaultBands mirrors the storefront's price selector.
func DefaultBands() []Band {
	return []Band{
		{Value: "0-500000", Label: "Under ₵500K"},
		{Value: "500000-1000000", Label: "₵500K - ₵1M"},
		{Value: "1000000-2000000", Label: "₵1M - ₵2M"},
		{Value: "2000000+", Label: "₵2M+"},
	}
}

// LoadBandsFromFile loads bands from a JSON file, falling back to defaults on
// read or validation errors.
func LoadBandsFromFile(path string) ([]Band, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return DefaultBands(), fmt.Errorf("read price bands file: %w", err)
	}

	var bands []Band
	if err := json.Unmarshal(b, &bands); err != nil {
		return DefaultBands(), fmt.Errorf("unmarshal price bands: %w", err)
	}
	if len(bands) == 0 {
		return DefaultBands(), fmt.Errorf("price bands file %s is empty", path)
	}
	for _, band := range bands {
		if _, err := band.Range(); err != nil {
			return DefaultBands(), fmt.Errorf("price band %q: %w", band.Label, err)
		}
	}
	return bands, nil
}
