package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/money"
	"storefront/internal/services"
)

func (h *Handler) GetCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	sess, err := h.checkout.Session(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(h.checkout.Summary(sess)))
}

func (h *Handler) SetQuantity(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := h.checkout.SetQuantity(c.Request.Context(), sid, c.Param("productId"), *req.Quantity)
	h.writeCart(c, summary, err)
}

func (h *Handler) Increment(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	summary, err := h.checkout.Increment(c.Request.Context(), sid, c.Param("productId"))
	h.writeCart(c, summary, err)
}

func (h *Handler) Decrement(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	summary, err := h.checkout.Decrement(c.Request.Context(), sid, c.Param("productId"))
	h.writeCart(c, summary, err)
}

func (h *Handler) ClearCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	summary, err := h.checkout.ClearCart(c.Request.Context(), sid)
	h.writeCart(c, summary, err)
}

func (h *Handler) writeCart(c *gin.Context, summary services.CartSummary, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(summary))
}

func (h *Handler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.checkout.Submit(c.Request.Context(), sid, req.Contact())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, OrderResponse{
		ID:            order.ID,
		InvoiceNumber: order.InvoiceNumber,
		TokenNumber:   order.TokenNumber,
		Status:        string(order.Status),
		TotalAmount:   money.Format(order.TotalAmount),
		Message: fmt.Sprintf("Order placed successfully! Your Token Number is: %d. "+
			"Please download the PDF invoice and then proceed to WhatsApp.", order.TokenNumber),
	})
}

func (h *Handler) DownloadInvoice(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	file, err := h.checkout.DownloadInvoice(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *Handler) Share(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	link, err := h.checkout.Share(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ShareResponse{URL: link})
}

func (h *Handler) Reset(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	sess, err := h.checkout.Reset(c.Request.Context(), sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(h.checkout.Summary(sess)))
}
