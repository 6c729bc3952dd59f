package repository

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)

// Counter names shared by every storefront instance.
const (
	InvoiceCounter = "invoiceCounter"
	TokenCounter   = "tokenCounter"
)

type OrderRepository interface {
	Append(ctx context.Context, order *domain.Order) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Remove(ctx context.Context, id string) error
	RemoveAll(ctx context.Context) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByToken(ctx context.Context, token int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

// CounterRepository reads and writes named counters. It offers no
// compare-and-set: two callers that read the same value will both write
// value+1.
type CounterRepository interface {
	Read(ctx context.Context, name string) (int64, error)
	Write(ctx context.Context, name string, value int64) error
}

type ProductRepository interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Save(ctx context.Context, p *domain.Product) error
	SaveAll(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context, id string) error
}
