package composer

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Input is read up to the first character that cannot continue a number,
// so "3 pcs" is 3 and "12.5abc" is 12.5.
var (
	intPrefix     = regexp.MustCompile(`^[+-]?\d+`)
	decimalPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Parsed values are clamped to these bounds.
const (
	MaxQuantity  = math.MaxInt32
	MaxUnitValue = 1e12
)

// ParseQuantity reads an integer quantity from the leading digits of raw,
// defaulting to 1 when there are none. Fractions are truncated.
func ParseQuantity(raw string) int {
	m := intPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 1
	}
	qty, err := strconv.ParseInt(m, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 1
	}
	switch {
	case qty > MaxQuantity:
		return MaxQuantity
	case qty < -MaxQuantity:
		return -MaxQuantity
	}
	return int(qty)
}

// ParseUnitPrice reads a decimal price from the leading number in raw,
// defaulting to 0 when there is none.
func ParseUnitPrice(raw string) decimal.Decimal {
	v, ok := parseDecimalPrefix(raw)
	if !ok {
		return decimal.Zero
	}
	return v
}

// ParseDiscount reads a discount percentage. Blank input or input without a
// leading number yields nil, which the request mapping replaces with the
// default discount.
func ParseDiscount(raw string) *decimal.Decimal {
	v, ok := parseDecimalPrefix(raw)
	if !ok {
		return nil
	}
	return &v
}

func parseDecimalPrefix(raw string) (decimal.Decimal, bool) {
	m := decimalPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return decimal.Decimal{}, false
	}
	f, err := strconv.ParseFloat(m, 64)
	switch {
	case math.IsInf(f, 1) || f > MaxUnitValue:
		return decimal.NewFromInt(MaxUnitValue), true
	case math.IsInf(f, -1) || f < -MaxUnitValue:
		return decimal.NewFromInt(-MaxUnitValue), true
	case err != nil || f == 0:
		return decimal.Zero, true
	}
	v, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.NewFromFloat(f), true
	}
	return v, true
}
