// Package cart holds the in-memory ledger of product quantities and the
// order total rules built on top of it.
package cart

import (
	"encoding/json"

	"storefront/internal/domain"
)

// Ledger maps product IDs to quantities, remembering the order in which
// products were first added. It never holds a line with quantity <= 0.
type Ledger struct {
	lines []domain.CartLine
	index map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{index: map[string]int{}}
}

// FromLines rebuilds a ledger from a stored snapshot, replaying each line so
// that invalid or duplicate entries collapse the same way live edits do.
func FromLines(lines []domain.CartLine) *Ledger {
	l := NewLedger()
	for _, line := range lines {
		l.SetQuantity(line.Product, line.Quantity)
	}
	return l
}

// SetQuantity removes the product when qty <= 0, otherwise inserts it or
// replaces its line in place.
func (l *Ledger) SetQuantity(p domain.Product, qty int) {
	i, ok := l.index[p.ID]
	if qty <= 0 {
		if ok {
			l.remove(i)
		}
		return
	}
	if ok {
		l.lines[i] = domain.CartLine{Product: p, Quantity: qty}
		return
	}
	l.index[p.ID] = len(l.lines)
	l.lines = append(l.lines, domain.CartLine{Product: p, Quantity: qty})
}

func (l *Ledger) Increment(p domain.Product) int {
	q := l.Get(p.ID) + 1
	l.SetQuantity(p, q)
	return q
}

// Decrement lowers the quantity by one; a product not in the ledger is left alone.
func (l *Ledger) Decrement(p domain.Product) int {
	q := l.Get(p.ID)
	if q == 0 {
		return 0
	}
	l.SetQuantity(p, q-1)
	return q - 1
}

func (l *Ledger) Get(productID string) int {
	if i, ok := l.index[productID]; ok {
		return l.lines[i].Quantity
	}
	return 0
}

func (l *Ledger) remove(i int) {
	delete(l.index, l.lines[i].Product.ID)
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	for j := i; j < len(l.lines); j++ {
		l.index[l.lines[j].Product.ID] = j
	}
}

func (l *Ledger) Clear() {
	l.lines = nil
	l.index = map[string]int{}
}

// Lines returns a copy of the ledger in insertion order.
func (l *Ledger) Lines() []domain.CartLine {
	return append([]domain.CartLine(nil), l.lines...)
}

func (l *Ledger) Len() int      { return len(l.lines) }
func (l *Ledger) IsEmpty() bool { return len(l.lines) == 0 }

func (l *Ledger) MarshalJSON() ([]byte, error) {
	lines := l.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return json.Marshal(lines)
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*l = *FromLines(lines)
	return nil
}
