package api

import (
	"net/http"

	"glamgo/internal/auth"
	"glamgo/internal/models"
	"glamgo/internal/store"

	"github.com/gin-gonic/gin"
)

// createOrder handles order creation. A repeated Idempotency-Key from the
// same caller returns the order created the first time.
func (h *Handler) createOrder(c *gin.Context) {
	req := models.NewOrder()
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	o, err := h.svc.Orders.CreateOrder(c.Request.Context(), auth.IdentityFrom(c), req, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.writeError(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) getOrder(c *gin.Context) {
	o, err := h.svc.Orders.GetOrder(c.Request.Context(), auth.IdentityFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to get order")
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) listOrders(c *gin.Context) {
	page, err := pageFrom(c)
	if err != nil {
		badRequest(c, "Invalid pagination", err)
		return
	}

	f := store.OrderFilter{
		CustomerID: c.Query("customerId"),
		DriverID:   c.Query("driverId"),
		Status:     c.Query("status"),
	}
	items, err := h.svc.Orders.ListOrders(c.Request.Context(), auth.IdentityFrom(c), f, page)
	if err != nil {
		h.writeError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) updateOrder(c *gin.Context) {
	o, err := h.svc.Orders.UpdateOrder(c.Request.Context(), auth.IdentityFrom(c), c.Param("id"),
		func(o *models.Order) error { return c.ShouldBindJSON(o) })
	if err != nil {
		h.writeError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.svc.Orders.DeleteOrder(c.Request.Context(), auth.IdentityFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err, "Failed to delete order")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listOrderLines(c *gin.Context) {
	page, err := pageFrom(c)
	if err != nil {
		badRequest(c, "Invalid pagination", err)
		return
	}

	f := store.OrderProductFilter{OrderID: c.Param("id")}
	items, err := h.svc.OrderProducts.ListOrderProducts(c.Request.Context(), auth.IdentityFrom(c), f, page)
	if err != nil {
		h.writeError(c, err, "Failed to list order products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
