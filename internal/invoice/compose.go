package invoice

import (
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/money"
)

const (
	placeholder = "N/A"
	nameLimit   = 30
	dateLayout  = "02/01/2006"
)

// Shop is the fixed identity printed at the top and bottom of every invoice.
type Shop struct {
	Name         string
	AddressLines []string
	Phones       string
	UPI          string
	QRImage      string
	Footer       string
}

func DefaultShop() Shop {
	return Shop{
		Name:         "UDHAYAM CRACKERS",
		AddressLines: []string{"Sankarankovil Main Road,", "Madathupatti, Sivakasi - 626123"},
		Phones:       "Phone no.: +919597413148 & +919952555514",
		UPI:          "UPI id: @oksbi",
		Footer:       "THANK YOU VISIT AGAIN",
	}
}

// Layout holds the vertical positions the composer works with.
type Layout struct {
	CenterX   float64
	TopMargin float64
	BreakAt   float64
	RowHeight float64
	TableTop  float64
	FooterY   float64
}

var A4 = Layout{
	CenterX:   105,
	TopMargin: 20,
	BreakAt:   250,
	RowHeight: 10,
	TableTop:  115,
	FooterY:   280,
}

// height of the subtotal/total/words block below the table
const totalsBlock = 47

var headerFill = Color{240, 240, 240}

type Composer struct {
	shop     Shop
	taxonomy *catalog.Taxonomy
	layout   Layout
}

func NewComposer(shop Shop, t *catalog.Taxonomy) *Composer {
	return &Composer{shop: shop, taxonomy: t, layout: A4}
}

func (c *Composer) WithLayout(l Layout) *Composer {
	cp := *c
	cp.layout = l
	return &cp
}

func (c *Composer) Compose(o *domain.Order) Document {
	inv := Project(o, c.taxonomy)
	b := &builder{}

	c.header(b)
	c.metadata(b, inv)
	y := c.table(b, inv.Rows)
	c.totals(b, inv, y)
	b.centered(c.shop.Footer, c.layout.CenterX, c.layout.FooterY, 12)

	return Document{
		FileName:     FileName(inv.TokenNumber, inv.InvoiceNumber),
		Invoice:      inv,
		Instructions: b.out,
	}
}

func (c *Composer) header(b *builder) {
	b.centered(c.shop.Name, c.layout.CenterX, 20, 18)
	y := 30.0
	for _, l := range c.shop.AddressLines {
		b.centered(l, c.layout.CenterX, y, 10)
		y += 5
	}
	b.centered(c.shop.Phones, c.layout.CenterX, y, 10)

	if c.shop.QRImage != "" {
		b.image(c.shop.QRImage, 150, 50, 40, 40)
	}
	if c.shop.UPI != "" {
		b.text(c.shop.UPI, 150, 95, 10, false)
	}
	b.text("Tax Invoice", 20, 50, 14, false)
}

func (c *Composer) metadata(b *builder, inv Invoice) {
	b.text(fmt.Sprintf("Invoice No.: %d", inv.InvoiceNumber), 20, 60, 10, false)
	b.text(fmt.Sprintf("Token No.: %d", inv.TokenNumber), 20, 65, 10, false)
	date := placeholder
	if !inv.Date.IsZero() {
		date = inv.Date.Format(dateLayout)
	}
	b.text("Date: "+date, 20, 70, 10, false)
	b.text("Status: "+orPlaceholder(string(inv.Status)), 20, 75, 10, false)

	b.text("Bill To:", 20, 85, 10, false)
	b.text(orPlaceholder(inv.Contact.Name), 20, 90, 10, false)
	b.text(orPlaceholder(inv.Contact.Address), 20, 95, 10, false)
	b.text(orPlaceholder(inv.Contact.City), 20, 100, 10, false)
	b.text("Phone: "+orPlaceholder(inv.Contact.Phone), 20, 105, 10, false)
}

// table draws the item table and returns the y position below it. When a row
// pushes y past the break line the table continues at the top margin of a
// new page, without repeating the column header. A category header never
// ends a page; it moves to the next page with its first row.
func (c *Composer) table(b *builder, rows []Row) float64 {
	l := c.layout
	y := l.TableTop
	b.rect(10, y, 190, l.RowHeight, headerFill)
	for _, col := range []struct {
		title string
		x     float64
	}{{"S.No", 12}, {"Item name", 25}, {"HSN/SAC", 85}, {"Qty", 110}, {"Price/unit", 130}, {"Amount", 170}} {
		b.text(col.title, col.x, y+7, 10, false)
	}
	y += l.RowHeight

	for _, r := range rows {
		if r.Header && y+l.RowHeight > l.BreakAt {
			b.pageBreak()
			y = l.TopMargin
		}
		if r.Header {
			b.text(r.Category, 25, y+7, 12, true)
		} else {
			b.text(fmt.Sprint(r.SeqNo), 13, y+7, 10, false)
			b.text(truncate(r.Name, nameLimit), 25, y+7, 10, false)
			b.text("-", 90, y+7, 10, false)
			b.text(fmt.Sprint(r.Quantity), 112, y+7, 10, false)
			b.text(money.Format(r.UnitPrice), 135, y+7, 10, false)
			b.text(money.Format(r.Amount), 175, y+7, 10, false)
		}
		y += l.RowHeight
		if y > l.BreakAt {
			b.pageBreak()
			y = l.TopMargin
		}
	}
	return y
}

func (c *Composer) totals(b *builder, inv Invoice, y float64) {
	l := c.layout
	y += l.RowHeight
	if y+totalsBlock > l.FooterY-l.RowHeight {
		b.pageBreak()
		y = l.TopMargin
	}
	b.line(10, y, 200, y)
	b.text("Subtotal", 130, y+7, 10, false)
	b.text(money.Format(inv.Subtotal), 175, y+7, 10, false)

	y += l.RowHeight
	b.text("Total", 130, y+7, 10, true)
	b.text(money.Format(inv.Total), 175, y+7, 10, true)

	y += 2 * l.RowHeight
	b.text("INVOICE AMOUNT IN WORDS", 20, y, 10, false)
	b.text(inv.Words, 20, y+7, 10, true)
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
