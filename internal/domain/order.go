package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusConfirmed  OrderStatus = "Confirmed"
	StatusDispatched OrderStatus = "Dispatched"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDispatched, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Contact is the bill-to block captured at checkout.
type Contact struct {
	Name    string `json:"name" gorm:"size:64" validate:"required,min=3,max=50,personname"`
	Phone   string `json:"phone" gorm:"size:16;index" validate:"required,phone10"`
	Address string `json:"address" gorm:"size:128" validate:"required,min=10,max=100,noangle"`
	City    string `json:"city" gorm:"size:32" validate:"required,min=2,max=30,personname"`
}

// OrderRequest is the immutable snapshot handed to the submission step.
type OrderRequest struct {
	Contact Contact
	Lines   []CartLine
	Total   decimal.Decimal
}

type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	InvoiceNumber int64           `json:"invoiceNumber" gorm:"not null;index"`
	TokenNumber   int64           `json:"tokenNumber" gorm:"not null;index"`
	Contact       Contact         `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`
	Lines         []CartLine      `json:"cart" gorm:"serializer:json;type:json"`
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:decimal(14,2);not null"`
	Status        OrderStatus     `json:"status" gorm:"size:16;default:'Pending'"`
	PDFDownloaded bool            `json:"pdfDownloaded" gorm:"not null;default:false"`
	Shared        bool            `json:"shared" gorm:"not null;default:false"`
	OrderDate     time.Time       `json:"orderDate" gorm:"not null;index"`
	UpdatedAt     time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Counter backs the invoice and token sequences.
type Counter struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int64  `gorm:"not null"`
}
