// Package invoice turns a placed order into a category-grouped invoice and a
// renderer-neutral list of drawing instructions.
package invoice

import (
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/money"

	"github.com/shopspring/decimal"
)

// Row is either a category header or an item line. SeqNo runs across the
// whole invoice and is zero on header rows.
type Row struct {
	Header    bool            `json:"header,omitempty"`
	Category  string          `json:"category"`
	SeqNo     int             `json:"seqNo,omitempty"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
}

type Invoice struct {
	InvoiceNumber int64              `json:"invoiceNumber"`
	TokenNumber   int64              `json:"tokenNumber"`
	Date          time.Time          `json:"date"`
	Status        domain.OrderStatus `json:"status"`
	Contact       domain.Contact     `json:"customer"`
	Rows          []Row              `json:"rows"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Total         decimal.Decimal    `json:"total"`
	Words         string             `json:"words"`
}

// Project builds the read-only invoice view of an order.
func Project(o *domain.Order, t *catalog.Taxonomy) Invoice {
	inv := Invoice{
		InvoiceNumber: o.InvoiceNumber,
		TokenNumber:   o.TokenNumber,
		Date:          o.OrderDate,
		Status:        o.Status,
		Contact:       o.Contact,
		Rows:          groupRows(o.Lines, t),
		Subtotal:      cart.Total(o.Lines),
	}
	// no taxes or fees are modelled
	inv.Total = inv.Subtotal
	inv.Words = money.AmountInWords(inv.Total)
	return inv
}

func groupRows(lines []domain.CartLine, t *catalog.Taxonomy) []Row {
	buckets := make(map[string][]domain.CartLine)
	var seen []string
	for _, line := range lines {
		c := t.CategoryOf(line.Product.Category)
		if _, ok := buckets[c]; !ok {
			seen = append(seen, c)
		}
		buckets[c] = append(buckets[c], line)
	}

	rows := make([]Row, 0, len(lines)+len(seen))
	seq := 0
	for _, c := range t.Order(seen) {
		rows = append(rows, Row{Header: true, Category: c})
		for _, line := range buckets[c] {
			seq++
			rows = append(rows, Row{
				Category:  c,
				SeqNo:     seq,
				Name:      line.Product.Name,
				Quantity:  line.Quantity,
				UnitPrice: line.Product.Price,
				Amount:    cart.LineAmount(line),
			})
		}
	}
	return rows
}

// FileName is the download name for an order's invoice.
func FileName(token, invoiceNumber int64) string {
	return fmt.Sprintf("order_summary_token_%d_invoice_%d.pdf", token, invoiceNumber)
}
