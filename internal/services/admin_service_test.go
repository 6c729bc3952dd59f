package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/invoice"
	"storefront/internal/mocks"
	"storefront/internal/repository"
)

type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls++
	return r.err
}

type adminFixture struct {
	svc       *AdminService
	orders    *mocks.MockOrderRepository
	products  *mocks.MockProductRepository
	uploader  *mocks.MockUploader
	refresher *countingRefresher
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		orders:    new(mocks.MockOrderRepository),
		products:  new(mocks.MockProductRepository),
		uploader:  new(mocks.MockUploader),
		refresher: &countingRefresher{},
	}
	tax := catalog.DefaultTaxonomy()
	f.svc = NewAdminService(f.orders, f.products, f.uploader, f.refresher,
		invoice.NewComposer(invoice.DefaultShop(), tax), invoice.TextRenderer{}, tax)
	f.svc.now = func() time.Time { return time.UnixMilli(1729240051234) }
	return f
}

func CreateMockOrder(id string, token int64, lines ...domain.CartLine) *domain.Order {
	o := &domain.Order{
		ID:            id,
		InvoiceNumber: token + 100,
		TokenNumber:   token,
		Contact:       validTestContact(),
		Lines:         lines,
		Status:        domain.StatusPending,
		OrderDate:     testNow,
	}
	for _, l := range lines {
		o.TotalAmount = o.TotalAmount.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return o
}

func TestAdmin_ListOrdersTotals(t *testing.T) {
	f := newAdminFixture()
	f.orders.On("List", mock.Anything).Return([]domain.Order{
		*CreateMockOrder("o1", 1, domain.CartLine{Product: testCatalog["a"], Quantity: 6}),
		*CreateMockOrder("o2", 2, domain.CartLine{Product: testCatalog["b"], Quantity: 2}),
	}, nil)

	list, err := f.svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, list.Orders, 2)
	assert.Equal(t, "7000", list.TotalAmount.String())
}

func TestAdmin_ListOrdersEmpty(t *testing.T) {
	f := newAdminFixture()
	f.orders.On("List", mock.Anything).Return(nil, nil)

	list, err := f.svc.ListOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list.Orders)
	assert.True(t, list.TotalAmount.IsZero())
}

func TestAdmin_UpdateOrder(t *testing.T) {
	f := newAdminFixture()
	order := CreateMockOrder("o1", 3,
		domain.CartLine{Product: testCatalog["a"], Quantity: 2},
		domain.CartLine{Product: testCatalog["b"], Quantity: 1},
	)
	f.orders.On("FindByID", mock.Anything, "o1").Return(order, nil)
	f.orders.On("Update", mock.Anything, "o1", mock.MatchedBy(func(fields map[string]any) bool {
		total, ok := fields["total_amount"].(decimal.Decimal)
		lines, _ := fields["lines"].([]domain.CartLine)
		return ok && total.Equal(decimal.NewFromInt(2500)) && len(lines) == 1 &&
			fields["status"] == domain.StatusConfirmed
	})).Return(nil).Once()

	status := domain.StatusConfirmed
	updated, err := f.svc.UpdateOrder(context.Background(), "o1", OrderPatch{
		Status:     &status,
		Quantities: map[string]int{"a": 5, "b": 0, "unknown": 4},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, "a", updated.Lines[0].Product.ID)
	assert.Equal(t, "2500", updated.TotalAmount.String())
	f.orders.AssertExpectations(t)
}

func TestAdmin_UpdateOrderErrors(t *testing.T) {
	f := newAdminFixture()
	f.orders.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrOrderNotFound)
	f.orders.On("FindByID", mock.Anything, "o1").Return(CreateMockOrder("o1", 1), nil)

	_, err := f.svc.UpdateOrder(context.Background(), "missing", OrderPatch{})
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	bogus := domain.OrderStatus("Lost")
	_, err = f.svc.UpdateOrder(context.Background(), "o1", OrderPatch{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmin_OrderInvoice(t *testing.T) {
	f := newAdminFixture()
	f.orders.On("FindByID", mock.Anything, "o1").
		Return(CreateMockOrder("o1", 5, domain.CartLine{Product: testCatalog["a"], Quantity: 1}), nil)

	file, err := f.svc.OrderInvoice(context.Background(), "o1", nil)
	require.NoError(t, err)
	assert.Equal(t, "order_summary_token_5_invoice_105.txt", file.Name)
	assert.Contains(t, string(file.Content), "Five Hundred Rupees and Zero Paise Only")

	file, err = f.svc.OrderInvoice(context.Background(), "o1", invoice.NewPDFRenderer())
	require.NoError(t, err)
	assert.Equal(t, "order_summary_token_5_invoice_105.pdf", file.Name)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestAdmin_DeleteOrders(t *testing.T) {
	f := newAdminFixture()
	f.orders.On("Remove", mock.Anything, "o1").Return(nil)
	f.orders.On("RemoveAll", mock.Anything).Return(nil)

	require.NoError(t, f.svc.DeleteOrder(context.Background(), "o1"))
	require.NoError(t, f.svc.DeleteAllOrders(context.Background()))
	f.orders.AssertExpectations(t)
}

func validProductInput() ProductInput {
	return ProductInput{Name: "Flower Pot Special", Category: "FLOWER POTS", Unit: "1 Box", MRP: "400", Discount: "80", Price: "80"}
}

func TestAdmin_CreateProduct(t *testing.T) {
	f := newAdminFixture()
	body := strings.NewReader("png-bytes")
	f.uploader.On("Upload", mock.Anything, "pot.png", body).Return("https://cdn.example.com/pot.png", nil)
	f.products.On("Save", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	p, err := f.svc.CreateProduct(context.Background(), validProductInput(), &Image{Name: "pot.png", Body: body})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "FLP1234", p.Code)
	assert.Equal(t, "https://cdn.example.com/pot.png", p.ImageURL)
	assert.Equal(t, "80", p.Price.String())
	assert.Equal(t, 1, f.refresher.calls)
}

func TestAdmin_CreateProductValidation(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.CreateProduct(context.Background(), ProductInput{
		Name: "ab", Category: "NOT A CATEGORY", MRP: "0", Discount: "-1", Price: "abc",
	}, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"productName": "Product name must be at least 3 characters",
		"category":    "Please select a valid category",
		"mrp":         "Please enter a valid MRP greater than 0",
		"discount":    "Please enter a valid discount (0 or greater)",
		"ourPrice":    "Please enter a valid price greater than 0",
		"image":       "Please upload an image",
	}, verr.Fields)
	f.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmin_CreateProductUploadFailure(t *testing.T) {
	f := newAdminFixture()
	f.uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("breaker open"))

	_, err := f.svc.CreateProduct(context.Background(), validProductInput(), &Image{Name: "x.png", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrRemoteCall)
	f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Zero(t, f.refresher.calls)
}

func TestAdmin_UpdateProductKeepsCodeAndImage(t *testing.T) {
	f := newAdminFixture()
	existing := &domain.Product{ID: "p1", Code: "FLP0042", ImageURL: "https://cdn.example.com/old.png"}
	f.products.On("FindByID", mock.Anything, "p1").Return(existing, nil)
	f.products.On("Save", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	f.refresher.err = errors.New("source down")

	p, err := f.svc.UpdateProduct(context.Background(), "p1", validProductInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, "FLP0042", p.Code)
	assert.Equal(t, "https://cdn.example.com/old.png", p.ImageURL)
	assert.Equal(t, "Flower Pot Special", p.Name)
	f.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdmin_DeleteProduct(t *testing.T) {
	f := newAdminFixture()
	f.products.On("Delete", mock.Anything, "gone").Return(repository.ErrProductNotFound)
	f.products.On("Delete", mock.Anything, "p1").Return(nil)

	assert.ErrorIs(t, f.svc.DeleteProduct(context.Background(), "gone"), repository.ErrProductNotFound)
	require.NoError(t, f.svc.DeleteProduct(context.Background(), "p1"))
	assert.Equal(t, 1, f.refresher.calls)
}

func TestAdmin_ImportProducts(t *testing.T) {
	f := newAdminFixture()
	f.products.On("SaveAll", mock.Anything, mock.MatchedBy(func(ps []domain.Product) bool {
		if len(ps) != 2 {
			return false
		}
		for _, p := range ps {
			if p.ID == "-legacy1" && (p.Category != "BOMBS" || p.Unit != "1 Pkt" || !p.Price.Equal(decimal.NewFromInt(35))) {
				return false
			}
		}
		return true
	})).Return(nil)

	n, err := f.svc.ImportProducts(context.Background(), map[string]map[string]any{
		"-legacy1": {"productName": "Hydro Bomb", "climate": "BOMBS", "category": "1 Pkt", "ourPrice": "35"},
		"-legacy2": {"productName": "Rocket", "categorys": "SKY ROCKETS", "ourPrice": 120.5},
		"":         {"productName": "ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, f.refresher.calls)
}
