package money

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	crore    = 10000000
	lakh     = 100000
	thousand = 1000
	hundred  = 100
)

var (
	ones  = [...]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	tens  = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	teens = [...]string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
)

// Words spells n in the Indian numbering system (Crore, Lakh, Thousand).
func Words(n int64) string {
	if n < 0 {
		// the magnitude of math.MinInt64 only fits in a uint64
		return "Minus " + spell(uint64(-(n+1))+1)
	}
	return spell(uint64(n))
}

func spell(n uint64) string {
	if n == 0 {
		return "Zero"
	}

	var words []string
	for _, m := range []struct {
		size uint64
		name string
	}{{crore, "Crore"}, {lakh, "Lakh"}, {thousand, "Thousand"}, {hundred, "Hundred"}} {
		if n >= m.size {
			words = append(words, spell(n/m.size)+" "+m.name)
			n %= m.size
		}
	}

	switch {
	case n >= 20:
		words = append(words, tens[n/10])
		n %= 10
	case n >= 10:
		return strings.Join(append(words, teens[n-10]), " ")
	}
	if n > 0 {
		words = append(words, ones[n])
	}
	return strings.Join(words, " ")
}

// AmountInWords renders "<rupees> Rupees and <paise> Paise Only".
//
// The amount is rounded half-up to whole paise before it is split, so 99.995
// becomes One Hundred Rupees and Zero Paise; a paise part of 100 cannot occur.
func AmountInWords(amount decimal.Decimal) string {
	r := amount.Round(2)
	prefix := ""
	if r.IsNegative() {
		prefix = "Minus "
		r = r.Abs()
	}
	rupees := r.Truncate(0)
	paise := r.Sub(rupees).Shift(2).IntPart()
	return prefix + spellBig(rupees.BigInt()) + " Rupees and " + Words(paise) + " Paise Only"
}

// spellBig handles totals past the uint64 range by grouping in crores.
func spellBig(n *big.Int) string {
	if n.IsUint64() {
		return spell(n.Uint64())
	}
	q, r := new(big.Int).DivMod(n, big.NewInt(crore), new(big.Int))
	words := spellBig(q) + " Crore"
	if r.Sign() != 0 {
		words += " " + spell(r.Uint64())
	}
	return words
}
