package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/invoice"
	"storefront/internal/mocks"
)

const (
	TestSessionID  = "sess-1"
	TestOrderID    = "order-1"
	TestSharePhone = "919597413148"
)

var testNow = time.Date(2025, 10, 18, 10, 30, 0, 0, time.UTC)

type stubFinder map[string]domain.Product

func (f stubFinder) FindProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func CreateMockProduct(id, name, category, price string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Unit:     "1 Box",
		Price:    decimal.RequireFromString(price),
	}
}

var testCatalog = stubFinder{
	"a": CreateMockProduct("a", "Flower Pot Big", "FLOWER POTS", "500"),
	"b": CreateMockProduct("b", "1000 Wala", "WALA CRACKERS", "2000"),
	"c": CreateMockProduct("c", "Gift Box Deluxe", "GIFT BOX", "2999.99"),
}

func validTestContact() domain.Contact {
	return domain.Contact{Name: "Ravi Kumar", Phone: "9876543210", Address: "12 North Car Street", City: "Sivakasi"}
}

type checkoutFixture struct {
	svc      *CheckoutService
	store    *cache.RedisSessionStore
	orders   *mocks.MockOrderRepository
	counters *mocks.MockCounterRepository
	pub      *mocks.MockPublisher
}

func newCheckoutFixture(t *testing.T, renderer invoice.Renderer) *checkoutFixture {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	if renderer == nil {
		renderer = invoice.TextRenderer{}
	}
	f := &checkoutFixture{
		store:    cache.NewRedisSessionStore(client, time.Hour),
		orders:   new(mocks.MockOrderRepository),
		counters: new(mocks.MockCounterRepository),
		pub:      new(mocks.MockPublisher),
	}
	f.svc = NewCheckoutService(
		f.store,
		testCatalog,
		f.orders,
		f.counters,
		f.pub,
		invoice.NewComposer(invoice.DefaultShop(), catalog.DefaultTaxonomy()),
		renderer,
		CheckoutOptions{SharePhone: TestSharePhone, Now: func() time.Time { return testNow }},
	)
	return f
}
