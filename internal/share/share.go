// Package share builds the pre-filled chat message a shopper sends after
// placing an order. The chat link cannot carry attachments, so the message
// asks the shopper to attach the invoice they already downloaded.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/money"
)

const (
	MaxMessageLength = 4000
	truncatedLength  = 3990
	ellipsis         = "..."
	baseURL          = "https://wa.me/"
)

func Message(o *domain.Order) string {
	var b strings.Builder
	b.WriteString("New Order Received!\n\n")
	fmt.Fprintf(&b, "Token No.: %d\n", o.TokenNumber)
	fmt.Fprintf(&b, "Invoice No.: %d\n", o.InvoiceNumber)
	fmt.Fprintf(&b, "Customer: %s\n", o.Contact.Name)
	fmt.Fprintf(&b, "Phone: %s\n", o.Contact.Phone)
	fmt.Fprintf(&b, "Address: %s\n", o.Contact.Address)
	fmt.Fprintf(&b, "City: %s\n", o.Contact.City)
	fmt.Fprintf(&b, "Status: %s\n", o.Status)
	fmt.Fprintf(&b, "Total Amount: %s\n\n", money.FormatINR(o.TotalAmount))
	b.WriteString("Items:\n")
	for i, line := range o.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s - Qty: %d - %s", line.Product.Name, line.Quantity, money.FormatINR(cart.LineAmount(line)))
	}
	b.WriteString("\n\nNote: Please share the downloaded PDF invoice along with this message.")
	return Truncate(b.String())
}

// Truncate caps a message at MaxMessageLength characters, cutting it short
// with an ellipsis when it is longer.
func Truncate(msg string) string {
	r := []rune(msg)
	if len(r) <= MaxMessageLength {
		return msg
	}
	return string(r[:truncatedLength]) + ellipsis
}

// Link builds the click-to-chat URI for phone with msg pre-filled.
func Link(phone, msg string) string {
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return baseURL + digits(phone) + "?text=" + text
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
