package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/infra/cdn"
	"storefront/internal/invoice"
	"storefront/internal/repository"
)

// Refresher reloads the live catalog after a product write.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type OrderList struct {
	Orders      []domain.Order  `json:"orders"`
	TotalAmount decimal.Decimal `json:"totalOrderedAmount"`
}

// OrderPatch edits an order. Quantities are keyed by product ID; a quantity
// of zero drops the line.
type OrderPatch struct {
	Status     *domain.OrderStatus
	Quantities map[string]int
}

// ProductInput is an admin product form. Numbers arrive as entered.
type ProductInput struct {
	Name     string
	Category string
	Unit     string
	MRP      string
	Discount string
	Price    string
}

// Image is an uploaded product picture.
type Image struct {
	Name string
	Body io.Reader
}

type AdminService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	uploader cdn.Uploader
	catalog  Refresher
	composer *invoice.Composer
	renderer invoice.Renderer
	taxonomy *catalog.Taxonomy
	now      func() time.Time
}

func NewAdminService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	uploader cdn.Uploader,
	refresher Refresher,
	composer *invoice.Composer,
	renderer invoice.Renderer,
	taxonomy *catalog.Taxonomy,
) *AdminService {
	return &AdminService{
		orders:   orders,
		products: products,
		uploader: uploader,
		catalog:  refresher,
		composer: composer,
		renderer: renderer,
		taxonomy: taxonomy,
		now:      time.Now,
	}
}

func (a *AdminService) ListOrders(ctx context.Context) (*OrderList, error) {
	orders, err := a.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &OrderList{Orders: orders, TotalAmount: total}, nil
}

func (a *AdminService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return a.orders.FindByID(ctx, id)
}

func (a *AdminService) FindOrderByToken(ctx context.Context, token int64) (*domain.Order, error) {
	return a.orders.FindByToken(ctx, token)
}

// UpdateOrder applies patch and stores the order with its total recomputed
// from the edited lines.
func (a *AdminService) UpdateOrder(ctx context.Context, id string, patch OrderPatch) (*domain.Order, error) {
	order, err := a.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
		}
		order.Status = *patch.Status
		fields["status"] = order.Status
	}
	if len(patch.Quantities) > 0 {
		ledger := cart.FromLines(order.Lines)
		for _, line := range order.Lines {
			if qty, ok := patch.Quantities[line.Product.ID]; ok {
				ledger.SetQuantity(line.Product, qty)
			}
		}
		order.Lines = ledger.Lines()
		order.TotalAmount = ledger.Total()
		fields["lines"] = order.Lines
		fields["total_amount"] = order.TotalAmount
	}
	if len(fields) == 0 {
		return order, nil
	}

	if err := a.orders.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	log.Printf("order %s updated: %d field(s)", id, len(fields))
	return order, nil
}

func (a *AdminService) DeleteOrder(ctx context.Context, id string) error {
	return a.orders.Remove(ctx, id)
}

func (a *AdminService) DeleteAllOrders(ctx context.Context) error {
	if err := a.orders.RemoveAll(ctx); err != nil {
		return err
	}
	log.Printf("all orders deleted")
	return nil
}

// OrderInvoice renders the invoice of a stored order. A nil renderer uses the
// service default.
func (a *AdminService) OrderInvoice(ctx context.Context, id string, r invoice.Renderer) (*invoice.File, error) {
	order, err := a.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = a.renderer
	}
	file, err := invoice.Export(r, a.composer.Compose(order))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentGeneration, err)
	}
	return file, nil
}

func (a *AdminService) Categories() []string {
	return a.taxonomy.Names()
}

func (a *AdminService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return a.products.LoadProducts(ctx)
}

// CreateProduct validates the form, uploads the image and stores a new
// product with a generated code.
func (a *AdminService) CreateProduct(ctx context.Context, in ProductInput, img *Image) (*domain.Product, error) {
	p, err := a.parseProduct(in, img, true)
	if err != nil {
		return nil, err
	}
	url, err := a.uploader.Upload(ctx, img.Name, img.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: upload image: %w", ErrRemoteCall, err)
	}

	p.ID = uuid.NewString()
	p.ImageURL = url
	p.Code = catalog.GenerateCode(p.Category, a.now(), a.taxonomy)
	if err := a.products.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("product %s (%s) created", p.ID, p.Code)
	a.refresh(ctx)
	return p, nil
}

// UpdateProduct replaces the editable fields of a product. The image is only
// replaced when a new one is given; the code is kept.
func (a *AdminService) UpdateProduct(ctx context.Context, id string, in ProductInput, img *Image) (*domain.Product, error) {
	existing, err := a.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := a.parseProduct(in, img, false)
	if err != nil {
		return nil, err
	}

	p.ID = existing.ID
	p.Code = existing.Code
	p.CreatedAt = existing.CreatedAt
	p.ImageURL = existing.ImageURL
	if img != nil {
		url, err := a.uploader.Upload(ctx, img.Name, img.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: upload image: %w", ErrRemoteCall, err)
		}
		p.ImageURL = url
	}
	if err := a.products.Save(ctx, p); err != nil {
		return nil, err
	}
	a.refresh(ctx)
	return p, nil
}

func (a *AdminService) DeleteProduct(ctx context.Context, id string) error {
	if err := a.products.Delete(ctx, id); err != nil {
		return err
	}
	a.refresh(ctx)
	return nil
}

// ImportProducts loads a legacy export keyed by product ID, normalizing every
// record on the way in.
func (a *AdminService) ImportProducts(ctx context.Context, records map[string]map[string]any) (int, error) {
	products := make([]domain.Product, 0, len(records))
	for id, raw := range records {
		if strings.TrimSpace(id) == "" || raw == nil {
			continue
		}
		products = append(products, catalog.Normalize(id, raw, a.taxonomy))
	}
	if len(products) == 0 {
		return 0, nil
	}
	if err := a.products.SaveAll(ctx, products); err != nil {
		return 0, err
	}
	log.Printf("imported %d products", len(products))
	a.refresh(ctx)
	return len(products), nil
}

func (a *AdminService) refresh(ctx context.Context) {
	if a.catalog == nil {
		return
	}
	if err := a.catalog.Refresh(ctx); err != nil {
		log.Printf("catalog refresh after product write: %v", err)
	}
}

func (a *AdminService) parseProduct(in ProductInput, img *Image, requireImage bool) (*domain.Product, error) {
	fields := map[string]string{}

	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 3 {
		fields["productName"] = "Product name must be at least 3 characters"
	}
	category := strings.TrimSpace(in.Category)
	if !a.taxonomy.Contains(category) {
		fields["category"] = "Please select a valid category"
	}
	mrp, ok := parseAmount(in.MRP)
	if !ok || !mrp.IsPositive() {
		fields["mrp"] = "Please enter a valid MRP greater than 0"
	}
	discount, ok := parseAmount(in.Discount)
	if !ok || discount.IsNegative() {
		fields["discount"] = "Please enter a valid discount (0 or greater)"
	}
	price, ok := parseAmount(in.Price)
	if !ok || !price.IsPositive() {
		fields["ourPrice"] = "Please enter a valid price greater than 0"
	}
	if requireImage && (img == nil || img.Body == nil) {
		fields["image"] = "Please upload an image"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return &domain.Product{
		Name:     name,
		Category: category,
		Unit:     strings.TrimSpace(in.Unit),
		MRP:      mrp,
		Discount: discount,
		Price:    price,
	}, nil
}

// parseAmount reads a form number; blank or non-numeric input is rejected.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
