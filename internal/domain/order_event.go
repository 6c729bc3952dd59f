package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPlacedEvent struct {
	OrderID       string          `json:"orderId"`
	InvoiceNumber int64           `json:"invoiceNumber"`
	TokenNumber   int64           `json:"tokenNumber"`
	Customer      string          `json:"customer"`
	City          string          `json:"city"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Items         int             `json:"items"`
	OrderDate     time.Time       `json:"orderDate"`
}

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:       o.ID,
		InvoiceNumber: o.InvoiceNumber,
		TokenNumber:   o.TokenNumber,
		Customer:      o.Contact.Name,
		City:          o.Contact.City,
		TotalAmount:   o.TotalAmount,
		Items:         len(o.Lines),
		OrderDate:     o.OrderDate,
	}
}
