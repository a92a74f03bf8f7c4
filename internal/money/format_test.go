package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatTwoDecimals(t *testing.T) {
	f := NewFormatter(DefaultLocale, "")
	assert.Equal(t, "₹350.00", f.Format(decimal.NewFromInt(350)))
	assert.Equal(t, "₹35.50", f.Format(decimal.RequireFromString("35.5")))
	assert.Equal(t, "₹0.00", f.FormatNull(decimal.NullDecimal{}))
}

func TestFormatGroupsThousands(t *testing.T) {
	f := NewFormatter("en", "$")
	out := f.Format(decimal.RequireFromString("1234.5"))
	assert.True(t, strings.HasPrefix(out, "$1"))
	assert.True(t, strings.HasSuffix(out, "234.50"))
}

func TestNilFormatterUsesDefaults(t *testing.T) {
	var f *Formatter
	assert.Equal(t, "₹12.00", f.Format(decimal.NewFromInt(12)))
}

func TestPercent(t *testing.T) {
	f := NewFormatter("bogus-locale-###", "")
	assert.Equal(t, "10.0%", f.Percent(decimal.NewFromInt(10)))
}
