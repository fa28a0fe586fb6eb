package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	Serial int64    `json:"serial" binding:"required"`
	Name   string   `json:"name" binding:"required"`
	Price  *float64 `json:"price" binding:"required"`
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateProduct(c.Request.Context(), req.Serial, req.Name, *req.Price); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"serial": req.Serial})
}

type updateProductRequest struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price" binding:"required"`
}

// UpdateProduct handles PUT /api/products/:serial.
func (h *Handler) UpdateProduct(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateProduct(c.Request.Context(), serial, req.Name, *req.Price); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"serial": serial})
}

// DeleteProduct handles DELETE /api/products/:serial.
func (h *Handler) DeleteProduct(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(c.Request.Context(), serial); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
