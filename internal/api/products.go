package api

import (
	"net/http"

	"glamgo/internal/auth"
	"glamgo/internal/models"
	"glamgo/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createProduct(c *gin.Context) {
	req := models.NewProduct()
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	p, err := h.svc.Products.CreateProduct(c.Request.Context(), auth.IdentityFrom(c), req)
	if err != nil {
		h.writeError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.svc.Products.GetProduct(c.Request.Context(), auth.IdentityFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to get product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) listProducts(c *gin.Context) {
	page, err := pageFrom(c)
	if err != nil {
		badRequest(c, "Invalid pagination", err)
		return
	}

	f := store.ProductFilter{
		StoreID:  c.Query("storeId"),
		VendorID: c.Query("vendorId"),
		Category: c.Query("category"),
	}
	items, err := h.svc.Products.ListProducts(c.Request.Context(), auth.IdentityFrom(c), f, page)
	if err != nil {
		h.writeError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) updateProduct(c *gin.Context) {
	p, err := h.svc.Products.UpdateProduct(c.Request.Context(), auth.IdentityFrom(c), c.Param("id"),
		func(p *models.Product) error { return c.ShouldBindJSON(p) })
	if err != nil {
		h.writeError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.svc.Products.DeleteProduct(c.Request.Context(), auth.IdentityFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err, "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}
