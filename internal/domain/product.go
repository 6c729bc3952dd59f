package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical catalog record. Legacy field names are mapped
// onto it by catalog.Normalize before anything else sees the data.
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;size:64"`
	Code      string          `json:"code" gorm:"size:32;index"`
	Name      string          `json:"productName" gorm:"size:255;not null"`
	Category  string          `json:"category" gorm:"size:128;index"`
	Unit      string          `json:"unit" gorm:"size:64"`
	MRP       decimal.Decimal `json:"mrp" gorm:"type:decimal(12,2)"`
	Discount  decimal.Decimal `json:"discount" gorm:"type:decimal(5,2)"`
	Price     decimal.Decimal `json:"ourPrice" gorm:"type:decimal(12,2)"`
	ImageURL  string          `json:"imageUrl" gorm:"size:512"`
	CreatedAt time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
