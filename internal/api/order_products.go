package api

import (
	"net/http"

	"glamgo/internal/auth"
	"glamgo/internal/models"
	"glamgo/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createOrderProduct(c *gin.Context) {
	req := models.NewOrderProduct()
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	op, err := h.svc.OrderProducts.CreateOrderProduct(c.Request.Context(), auth.IdentityFrom(c), req)
	if err != nil {
		h.writeError(c, err, "Failed to create order product")
		return
	}
	c.JSON(http.StatusCreated, op)
}

func (h *Handler) getOrderProduct(c *gin.Context) {
	op, err := h.svc.OrderProducts.GetOrderProduct(c.Request.Context(), auth.IdentityFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to get order product")
		return
	}
	c.JSON(http.StatusOK, op)
}

func (h *Handler) listOrderProducts(c *gin.Context) {
	page, err := pageFrom(c)
	if err != nil {
		badRequest(c, "Invalid pagination", err)
		return
	}

	f := store.OrderProductFilter{
		OrderID:    c.Query("orderId"),
		ProductID:  c.Query("productId"),
		CustomerID: c.Query("customerId"),
	}
	items, err := h.svc.OrderProducts.ListOrderProducts(c.Request.Context(), auth.IdentityFrom(c), f, page)
	if err != nil {
		h.writeError(c, err, "Failed to list order products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) updateOrderProduct(c *gin.Context) {
	op, err := h.svc.OrderProducts.UpdateOrderProduct(c.Request.Context(), auth.IdentityFrom(c), c.Param("id"),
		func(op *models.OrderProduct) error { return c.ShouldBindJSON(op) })
	if err != nil {
		h.writeError(c, err, "Failed to update order product")
		return
	}
	c.JSON(http.StatusOK, op)
}

func (h *Handler) deleteOrderProduct(c *gin.Context) {
	if err := h.svc.OrderProducts.DeleteOrderProduct(c.Request.Context(), auth.IdentityFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err, "Failed to delete order product")
		return
	}
	c.Status(http.StatusNoContent)
}
