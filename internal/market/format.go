package market

import (
	"fmt"
	"math"
	"strconv"
)

// NotAvailable is shown for missing figures
const NotAvailable = "N/A"

var currencyScales = []struct {
	scale  float64
	suffix string
}{
	{1e12, "t"},
	{1e9, "b"},
	{1e6, "m"},
	{1e3, "k"},
}

// Percentage renders a ratio such as 0.1234 as "12.34%"
func Percentage(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

// Decimal renders a value with two decimals
func Decimal(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", *v)
}

// Dollars renders a price such as "$182.37"
func Dollars(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return "$" + Decimal(v)
}

// Currency renders a large amount with a scale suffix, e.g. "61.6b"
func Currency(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	for _, s := range currencyScales {
		if math.Abs(*v) >= s.scale {
			return fmt.Sprintf("%.1f%s", *v/s.scale, s.suffix)
		}
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
