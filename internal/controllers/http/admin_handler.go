package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/invoice"
	"storefront/internal/services"
)

const maxImageSize = 10 << 20

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, expires, err := h.auth.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case errors.Is(err, auth.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		writeError(c, err)
		return
	}
	log.Printf("admin %s signed in", req.Email)
	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires.Unix()})
}

func (h *Handler) ListOrders(c *gin.Context) {
	if tokenStr := c.Query("token"); tokenStr != "" {
		token, err := strconv.ParseInt(tokenStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token number"})
			return
		}
		order, err := h.admin.FindOrderByToken(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
		return
	}

	list, err := h.admin.ListOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.admin.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.admin.UpdateOrder(c.Request.Context(), c.Param("id"), services.OrderPatch{
		Status:     req.Status,
		Quantities: req.Quantities,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.admin.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteAllOrders(c *gin.Context) {
	if err := h.admin.DeleteAllOrders(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) OrderInvoice(c *gin.Context) {
	var r invoice.Renderer
	if c.Query("format") == "text" {
		r = invoice.TextRenderer{}
	}
	file, err := h.admin.OrderInvoice(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *Handler) AdminListProducts(c *gin.Context) {
	products, err := h.admin.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	in, img, closeImg, ok := productForm(c)
	if !ok {
		return
	}
	defer closeImg()

	p, err := h.admin.CreateProduct(c.Request.Context(), in, img)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	in, img, closeImg, ok := productForm(c)
	if !ok {
		return
	}
	defer closeImg()

	p, err := h.admin.UpdateProduct(c.Request.Context(), c.Param("id"), in, img)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportProducts accepts a legacy product export: an object keyed by product
// ID whose values are the raw records.
func (h *Handler) ImportProducts(c *gin.Context) {
	var records map[string]map[string]any
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.admin.ImportProducts(c.Request.Context(), records)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": n})
}

// productForm reads the multipart product form. The image part is optional
// here; the service decides whether it is required.
func productForm(c *gin.Context) (services.ProductInput, *services.Image, func(), bool) {
	in := services.ProductInput{
		Name:     c.PostForm("productName"),
		Category: c.PostForm("category"),
		Unit:     c.PostForm("unit"),
		MRP:      c.PostForm("mrp"),
		Discount: c.PostForm("discount"),
		Price:    c.PostForm("ourPrice"),
	}
	noop := func() {}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, noop, true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return in, nil, noop, false
	}
	if fh.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is larger than 10MB"})
		return in, nil, noop, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return in, nil, noop, false
	}
	return in, &services.Image{Name: fh.Filename, Body: f}, func() { f.Close() }, true
}
