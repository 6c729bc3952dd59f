package invoice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id, name, category, price string, qty int) domain.CartLine {
	return domain.CartLine{
		Product:  domain.Product{ID: id, Name: name, Category: category, Price: decimal.RequireFromString(price)},
		Quantity: qty,
	}
}

func testOrder(lines ...domain.CartLine) *domain.Order {
	return &domain.Order{
		ID:            "o-1",
		InvoiceNumber: 41,
		TokenNumber:   17,
		Contact:       domain.Contact{Name: "Ravi Kumar", Phone: "9876543210", Address: "12 North Car Street", City: "Sivakasi"},
		Lines:         lines,
		Status:        domain.StatusPending,
		OrderDate:     time.Date(2025, 10, 18, 10, 30, 0, 0, time.UTC),
	}
}

func texts(doc Document) []string {
	var out []string
	for _, in := range doc.Instructions {
		if in.Kind == KindText {
			out = append(out, in.Text)
		}
	}
	return out
}

func TestProject_GroupsByTaxonomyAndNumbersAcrossCategories(t *testing.T) {
	tax := catalog.DefaultTaxonomy()
	o := testOrder(
		line("r1", "Rocket", "SKY ROCKETS", "100", 2),
		line("x1", "Surprise", "GIFT BOX", "50", 1),
		line("e1", "Electric 100", "ELECTRIC CRACKERS", "20", 3),
		line("r2", "Rocket Big", "SKY ROCKETS", "200", 1),
		line("u1", "Loose", "", "5", 4),
		line("e2", "Electric 1000", "ELECTRIC CRACKERS", "150", 1),
	)

	inv := Project(o, tax)

	var headers []string
	var seq []int
	var names []string
	for _, r := range inv.Rows {
		if r.Header {
			headers = append(headers, r.Category)
			continue
		}
		seq = append(seq, r.SeqNo)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"ELECTRIC CRACKERS", "SKY ROCKETS", "GIFT BOX", "Unspecified"}, headers)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, seq)
	assert.Equal(t, []string{"Electric 100", "Electric 1000", "Rocket", "Rocket Big", "Surprise", "Loose"}, names)
	assert.Equal(t, "680", inv.Subtotal.String())
	assert.True(t, inv.Subtotal.Equal(inv.Total))
	assert.Equal(t, "Six Hundred Eighty Rupees and Zero Paise Only", inv.Words)
}

func TestCompose_EndToEndThreeThousand(t *testing.T) {
	o := testOrder(
		line("a", "Product A", "BOMBS", "500", 2),
		line("b", "Product B", "FLOWER POTS", "2000", 1),
	)
	doc := NewComposer(DefaultShop(), catalog.DefaultTaxonomy()).Compose(o)

	assert.Equal(t, "order_summary_token_17_invoice_41.pdf", doc.FileName)
	assert.Equal(t, 1, doc.Pages())

	items := 0
	for _, r := range doc.Invoice.Rows {
		if !r.Header {
			items++
		}
	}
	assert.Equal(t, 2, items)
	assert.Equal(t, "3000.00", doc.Invoice.Subtotal.StringFixed(2))

	all := texts(doc)
	assert.Contains(t, all, "UDHAYAM CRACKERS")
	assert.Contains(t, all, "Invoice No.: 41")
	assert.Contains(t, all, "Token No.: 17")
	assert.Contains(t, all, "Date: 18/10/2025")
	assert.Contains(t, all, "Status: Pending")
	assert.Contains(t, all, "Phone: 9876543210")
	assert.Contains(t, all, "3000.00")
	assert.Contains(t, all, "1000.00")
	assert.Contains(t, all, "Three Thousand Rupees and Zero Paise Only")
	assert.Equal(t, "THANK YOU VISIT AGAIN", all[len(all)-1])
}

func TestCompose_PlaceholdersAndTruncation(t *testing.T) {
	o := testOrder(line("a", "An Extremely Long Product Name That Goes On", "BOMBS", "1", 1))
	o.Contact = domain.Contact{}
	o.Status = ""
	o.OrderDate = time.Time{}

	all := texts(NewComposer(DefaultShop(), catalog.DefaultTaxonomy()).Compose(o))
	assert.Contains(t, all, "Date: N/A")
	assert.Contains(t, all, "Status: N/A")
	assert.Contains(t, all, "Phone: N/A")
	assert.Contains(t, all, "An Extremely Long Product Name...")
}

func TestCompose_Paginates(t *testing.T) {
	var lines []domain.CartLine
	for i := 0; i < 30; i++ {
		lines = append(lines, line(fmt.Sprint(i), fmt.Sprintf("Item %02d", i), "BOMBS", "10", 1))
	}
	doc := NewComposer(DefaultShop(), catalog.DefaultTaxonomy()).Compose(testOrder(lines...))

	require.Greater(t, doc.Pages(), 1)

	// rows after a break resume at the top margin and the column header is not repeated
	headerCount := 0
	for i, in := range doc.Instructions {
		if in.Kind == KindText && in.Text == "S.No" {
			headerCount++
		}
		if in.Kind == KindPageBreak && i+1 < len(doc.Instructions) {
			next := doc.Instructions[i+1]
			assert.InDelta(t, A4.TopMargin+7, next.Y, 0.001)
		}
		if in.Kind == KindText && in.Y > A4.BreakAt+A4.RowHeight && in.Text != DefaultShop().Footer {
			t.Errorf("text %q drawn below the break line at %.0f", in.Text, in.Y)
		}
	}
	assert.Equal(t, 1, headerCount)

	seq := 0
	for _, r := range doc.Invoice.Rows {
		if !r.Header {
			seq++
			assert.Equal(t, seq, r.SeqNo)
		}
	}
	assert.Equal(t, 30, seq)
}

func TestCompose_CategoryHeaderNeverEndsAPage(t *testing.T) {
	c := NewComposer(DefaultShop(), catalog.DefaultTaxonomy())
	for n := 1; n <= 20; n++ {
		lines := []domain.CartLine{line("g", "Gift Pack", "GIFT BOX", "100", 1)}
		for i := 0; i < n; i++ {
			lines = append(lines, line(fmt.Sprint(i), fmt.Sprintf("Bomb %02d", i), "BOMBS", "10", 1))
		}
		doc := c.Compose(testOrder(lines...))

		var last Instruction
		for i, in := range doc.Instructions {
			if in.Kind == KindPageBreak {
				assert.False(t, last.Bold && last.Size == 12, "%d rows: page ends with category header %q", n, last.Text)
				if n == 11 {
					// eleven bomb rows fill the first page exactly
					assert.Equal(t, "GIFT BOX", doc.Instructions[i+1].Text)
				}
			}
			if in.Kind == KindText {
				last = in
			}
		}
	}
}

func TestCompose_CustomLayout(t *testing.T) {
	l := A4
	l.BreakAt = 140
	c := NewComposer(DefaultShop(), catalog.DefaultTaxonomy()).WithLayout(l)
	doc := c.Compose(testOrder(
		line("a", "A", "BOMBS", "1", 1),
		line("b", "B", "BOMBS", "1", 1),
		line("c", "C", "BOMBS", "1", 1),
	))
	assert.Equal(t, 2, doc.Pages())
}

func TestPDFRenderer_Render(t *testing.T) {
	doc := NewComposer(DefaultShop(), catalog.DefaultTaxonomy()).Compose(testOrder(
		line("a", "Chakkar ₹ Special", "GROUND CHAKKAR", "120.50", 3),
	))
	f, err := Export(NewPDFRenderer(), doc)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, doc.FileName, f.Name)
	assert.True(t, bytes.HasPrefix(f.Content, []byte("%PDF-")))
}

func TestPDFRenderer_SkipsMissingImage(t *testing.T) {
	shop := DefaultShop()
	shop.QRImage = filepath.Join(t.TempDir(), "missing.png")
	doc := NewComposer(shop, catalog.DefaultTaxonomy()).Compose(testOrder(line("a", "A", "BOMBS", "1", 1)))
	out, err := NewPDFRenderer().Render(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestPDFRenderer_BrokenImageFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o600))
	shop := DefaultShop()
	shop.QRImage = path
	doc := NewComposer(shop, catalog.DefaultTaxonomy()).Compose(testOrder(line("a", "A", "BOMBS", "1", 1)))
	_, err := NewPDFRenderer().Render(doc)
	assert.ErrorIs(t, err, ErrRender)
}

func TestTextRenderer(t *testing.T) {
	var lines []domain.CartLine
	for i := 0; i < 20; i++ {
		lines = append(lines, line(fmt.Sprint(i), "Item", "BOMBS", "1", 1))
	}
	doc := NewComposer(DefaultShop(), catalog.DefaultTaxonomy()).Compose(testOrder(lines...))
	f, err := Export(TextRenderer{}, doc)
	require.NoError(t, err)
	assert.Equal(t, "order_summary_token_17_invoice_41.txt", f.Name)
	assert.Equal(t, doc.Pages()-1, strings.Count(string(f.Content), "\f"))
	assert.Contains(t, string(f.Content), "Twenty Rupees and Zero Paise Only")
}
