package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ErrInvalidPriceRange = errors.New("invalid price range")

// priceRegexp captures the first decimal number once separators are gone,
// along with any sign or exponent so those forms can be rejected.
var priceRegexp = regexp.MustCompile(`([+-]?)(\d+(?:\.\d+)?)([eE][+-]?\d+)?`)

var symbols = map[string]string{
	"GHS": "₵",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// ParsePrice extracts a major-unit amount from display text like "₵2,500,000"
// or "GHS 1,200.50" and returns it in minor units. ok is false when the text
// holds no number, a negative number, an exponent, or an amount that does not
// fit in int64 minor units; the amount is then 0.
func ParsePrice(text string) (int64, bool) {
	cleaned := strings.ReplaceAll(text, ",", "")
	m := priceRegexp.FindStringSubmatch(cleaned)
	if m == nil || m[1] == "-" || m[3] != "" {
		return 0, false
	}

	whole, frac, _ := strings.Cut(m[2], ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, false
	}

	// round to two decimals
	var cents int64
	if frac != "" {
		frac += "00"
		cents, _ = strconv.ParseInt(frac[:2], 10, 64)
		if frac[2] >= '5' {
			cents++
		}
	}
	if units > (math.MaxInt64-cents)/100 {
		return 0, false
	}
	return units*100 + cents, true
}

// ParseMoney is ParsePrice plus currency detection. Malformed text gives a
// zero amount in DefaultCurrency.
func ParseMoney(text string) Money {
	amount, _ := ParsePrice(text)
	return Money{Amount: amount, Currency: detectCurrency(text)}
}

func detectCurrency(text string) string {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(text, "₵"), strings.Contains(upper, "GHS"), strings.Contains(upper, "GH¢"):
		return "GHS"
	case strings.Contains(text, "$"), strings.Contains(upper, "USD"):
		return "USD"
	case strings.Contains(text, "€"), strings.Contains(upper, "EUR"):
		return "EUR"
	case strings.Contains(text, "£"), strings.Contains(upper, "GBP"):
		return "GBP"
	}
	return DefaultCurrency
}

// FormatMoney renders m for display, e.g. "₵2,500,000" or "$1,200.50".
func FormatMoney(m Money) string {
	code := m.Currency
	if code == "" {
		code = DefaultCurrency
	}
	prefix, ok := symbols[code]
	if !ok {
		if unit, err := currency.ParseISO(code); err == nil {
			code = unit.String()
		}
		prefix = code + " "
	}

	p := message.NewPrinter(language.English)
	if m.Amount%100 == 0 {
		return prefix + p.Sprint(number.Decimal(m.Amount/100))
	}
	return prefix + p.Sprint(number.Decimal(m.Major(), number.Scale(2)))
}

// ParsePriceRange reads the search form's price value: "min-max" for a closed
// range, "min+" for open-ended. Empty and "all" mean no constraint.
func ParsePriceRange(text string) (*PriceRange, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "all") {
		return nil, nil
	}

	if lo, ok := strings.CutSuffix(text, "+"); ok {
		min, err := parseBound(lo)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPriceRange, text, err)
		}
		return AtLeast(min), nil
	}

	lo, hi, ok := strings.Cut(text, "-")
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrInvalidPriceRange, text)
	}
	min, err := parseBound(lo)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPriceRange, text, err)
	}
	max, err := parseBound(hi)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPriceRange, text, err)
	}
	if min > max {
		return nil, fmt.Errorf("%w %q: min above max", ErrInvalidPriceRange, text)
	}
	return Between(min, max), nil
}

func parseBound(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > (1<<63-1)/100 {
		return 0, fmt.Errorf("bound %d out of range", v)
	}
	return v, nil
}
