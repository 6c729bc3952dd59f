package http

import (
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/money"
	"storefront/internal/services"
)

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func (r CheckoutRequest) Contact() domain.Contact {
	return domain.Contact{Name: r.Name, Phone: r.Phone, Address: r.Address, City: r.City}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UpdateOrderRequest struct {
	Status     *domain.OrderStatus `json:"status"`
	Quantities map[string]int      `json:"quantities"`
}

type CartLineResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"productName"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"ourPrice"`
	Quantity  int             `json:"quantity"`
	Amount    string          `json:"amount"`
}

type CartResponse struct {
	SessionID string             `json:"sessionId"`
	State     string             `json:"state"`
	Lines     []CartLineResponse `json:"lines"`
	Total     string             `json:"total"`
	Minimum   string             `json:"minimum"`
	Eligible  bool               `json:"eligible"`
	Contact   domain.Contact     `json:"contact"`
	Order     *domain.Order      `json:"order,omitempty"`
}

func newCartResponse(s services.CartSummary) CartResponse {
	lines := make([]CartLineResponse, 0, len(s.Session.Lines))
	for _, l := range s.Session.Lines {
		lines = append(lines, CartLineResponse{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Category:  l.Product.Category,
			Unit:      l.Product.Unit,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
			Amount:    money.Format(cart.LineAmount(l)),
		})
	}
	return CartResponse{
		SessionID: s.Session.ID,
		State:     s.Session.State.String(),
		Lines:     lines,
		Total:     money.Format(s.Total),
		Minimum:   money.Format(s.Minimum),
		Eligible:  s.Eligible,
		Contact:   s.Session.Contact,
		Order:     s.Session.Order,
	}
}

type OrderResponse struct {
	ID            string `json:"id"`
	InvoiceNumber int64  `json:"invoiceNumber"`
	TokenNumber   int64  `json:"tokenNumber"`
	Status        string `json:"status"`
	TotalAmount   string `json:"totalAmount"`
	Message       string `json:"message"`
}

type ShareResponse struct {
	URL string `json:"url"`
}
