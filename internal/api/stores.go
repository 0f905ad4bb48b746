package api

import (
	"net/http"

	"glamgo/internal/auth"
	"glamgo/internal/models"
	"glamgo/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createStore(c *gin.Context) {
	req := models.NewStore()
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	st, err := h.svc.Stores.CreateStore(c.Request.Context(), auth.IdentityFrom(c), req)
	if err != nil {
		h.writeError(c, err, "Failed to create store")
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) getStore(c *gin.Context) {
	st, err := h.svc.Stores.GetStore(c.Request.Context(), auth.IdentityFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to get store")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) listStores(c *gin.Context) {
	page, err := pageFrom(c)
	if err != nil {
		badRequest(c, "Invalid pagination", err)
		return
	}

	f := store.StoreFilter{
		Owner:    c.Query("owner"),
		VendorID: c.Query("vendorId"),
		City:     c.Query("city"),
	}
	items, err := h.svc.Stores.ListStores(c.Request.Context(), auth.IdentityFrom(c), f, page)
	if err != nil {
		h.writeError(c, err, "Failed to list stores")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// updateStore binds the body over the current record, so omitted fields keep
// their values.
func (h *Handler) updateStore(c *gin.Context) {
	st, err := h.svc.Stores.UpdateStore(c.Request.Context(), auth.IdentityFrom(c), c.Param("id"),
		func(st *models.Store) error { return c.ShouldBindJSON(st) })
	if err != nil {
		h.writeError(c, err, "Failed to update store")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) deleteStore(c *gin.Context) {
	if err := h.svc.Stores.DeleteStore(c.Request.Context(), auth.IdentityFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err, "Failed to delete store")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listStoreProducts(c *gin.Context) {
	page, err := pageFrom(c)
	if err != nil {
		badRequest(c, "Invalid pagination", err)
		return
	}

	f := store.ProductFilter{StoreID: c.Param("id"), Category: c.Query("category")}
	items, err := h.svc.Products.ListProducts(c.Request.Context(), auth.IdentityFrom(c), f, page)
	if err != nil {
		h.writeError(c, err, "Failed to list store products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
