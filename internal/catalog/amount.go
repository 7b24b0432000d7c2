package catalog

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount coerces any decoded JSON value into a non-negative amount.
// Non-numeric, negative and missing values all become zero.
func ParseAmount(v any) decimal.Decimal {
	var d decimal.Decimal

	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		d = x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case json.Number:
		parsed, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		if s == "" {
			return decimal.Zero
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	default:
		return decimal.Zero
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
