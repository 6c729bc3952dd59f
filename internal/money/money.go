// Package money holds the numeric coercion and currency display rules used by
// the cart, the invoice and the share message.
package money

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const rupeeSign = "₹"

// Coerce turns a loosely typed price into a decimal. Anything that is not a
// finite number, or a string holding one, becomes zero.
func Coerce(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0)
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
	case json.Number:
		return fromString(x.String())
	case string:
		return fromString(x)
	}
	return decimal.Zero
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func fromString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders an amount with exactly two decimals. Rounding happens here
// and nowhere earlier.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatINR is Format with the rupee sign in front.
func FormatINR(d decimal.Decimal) string {
	return rupeeSign + Format(d)
}
