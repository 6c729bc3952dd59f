package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/services"
)

// ProductLister is the live catalog snapshot.
type ProductLister interface {
	Products() []domain.Product
}

type Handler struct {
	checkout *services.CheckoutService
	admin    *services.AdminService
	catalog  ProductLister
	taxonomy *catalog.Taxonomy
	auth     *auth.Authenticator
}

func NewHandler(checkout *services.CheckoutService, admin *services.AdminService, products ProductLister, taxonomy *catalog.Taxonomy, authn *auth.Authenticator) *Handler {
	return &Handler{
		checkout: checkout,
		admin:    admin,
		catalog:  products,
		taxonomy: taxonomy,
		auth:     authn,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/products", h.ListProducts)
	r.GET("/categories", h.ListCategories)

	r.POST("/sessions", h.CreateSession)
	s := r.Group("/sessions/:sid")
	s.GET("/cart", h.GetCart)
	s.DELETE("/cart", h.ClearCart)
	s.PUT("/cart/:productId", h.SetQuantity)
	s.POST("/cart/:productId/increment", h.Increment)
	s.POST("/cart/:productId/decrement", h.Decrement)
	s.POST("/checkout", h.Checkout)
	s.GET("/invoice", h.DownloadInvoice)
	s.POST("/share", h.Share)
	s.POST("/reset", h.Reset)

	r.POST("/admin/login", h.Login)
	a := r.Group("/admin", h.RequireAdmin())
	a.GET("/orders", h.ListOrders)
	a.DELETE("/orders", h.DeleteAllOrders)
	a.GET("/orders/:id", h.GetOrder)
	a.PATCH("/orders/:id", h.UpdateOrder)
	a.DELETE("/orders/:id", h.DeleteOrder)
	a.GET("/orders/:id/invoice", h.OrderInvoice)
	a.GET("/products", h.AdminListProducts)
	a.POST("/products", h.CreateProduct)
	a.POST("/products/import", h.ImportProducts)
	a.PUT("/products/:id", h.UpdateProduct)
	a.DELETE("/products/:id", h.DeleteProduct)
}

func (h *Handler) ListProducts(c *gin.Context) {
	products := catalog.Filter(h.catalog.Products(), c.Query("q"))
	c.JSON(http.StatusOK, catalog.GroupProducts(products, h.taxonomy))
}

func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":   h.taxonomy.Names(),
		"defaultImage": h.taxonomy.DefaultImage,
	})
}

func (h *Handler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"sessionId": uuid.NewString()})
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrPDFRequired),
		errors.Is(err, services.ErrOrderLocked),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrNoActiveOrder):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidProduct):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRemoteCall):
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "The service is temporarily unavailable. Please try again."})
	case errors.Is(err, services.ErrDocumentGeneration):
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF. Please try again."})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func sessionID(c *gin.Context) (string, bool) {
	sid := strings.TrimSpace(c.Param("sid"))
	if sid == "" || len(sid) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return "", false
	}
	return sid, true
}
