package cart

import (
	"fmt"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultMinimumOrder is the smallest total accepted for checkout.
var DefaultMinimumOrder = decimal.NewFromInt(3000)

// Total sums price x quantity over all lines at full precision.
func Total(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineAmount(line))
	}
	return total
}

func LineAmount(line domain.CartLine) decimal.Decimal {
	if line.Quantity <= 0 {
		return decimal.Zero
	}
	return line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

func (l *Ledger) Total() decimal.Decimal {
	return Total(l.lines)
}

// IsEligible reports whether total meets the minimum order policy.
func IsEligible(total, minimum decimal.Decimal) bool {
	return !total.LessThan(minimum)
}

// MinimumOrderMessage is the shopper-facing text for a total under minimum.
func MinimumOrderMessage(minimum decimal.Decimal) string {
	return fmt.Sprintf("YOUR ORDER IS LOW COST SO ORDER ABOVE %s", minimum.String())
}
