package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/cart"
)

var (
	ErrEmptyCart          = errors.New("Your cart is empty!")
	ErrBelowMinimum       = errors.New("order total below minimum")
	ErrRemoteCall         = errors.New("remote call failed")
	ErrDocumentGeneration = errors.New("failed to generate invoice")
	ErrPDFRequired        = errors.New("Please download the PDF first before proceeding to WhatsApp.")
	ErrIllegalTransition  = errors.New("illegal workflow transition")
	ErrNoActiveOrder      = errors.New("no order has been placed in this session")
	ErrOrderLocked        = errors.New("cart cannot change once the order is placed")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrInvalidStatus      = errors.New("invalid order status")
)

// BelowMinimumError carries the total that failed the minimum order policy.
type BelowMinimumError struct {
	Total   decimal.Decimal
	Minimum decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return cart.MinimumOrderMessage(e.Minimum)
}

func (e *BelowMinimumError) Is(target error) bool {
	return target == ErrBelowMinimum
}

// ValidationError maps each rejected field to a shopper-facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
