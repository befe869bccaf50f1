package controllers

import (
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// GET /products
func (h *Handler) ListProducts(c *gin.Context) {
	utils.LogInfo("ListProducts called")

	products, err := h.Products.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Products retrieved successfully", gin.H{"products": products})
}

// POST /admin/products
func (h *Handler) CreateProduct(c *gin.Context) {
	utils.LogInfo("CreateProduct called")

	var req services.ProductInput
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.Products.Create(c.Request.Context(), req)
	if err != nil {
		utils.LogError("Failed to create product %q: %v", req.Name, err)
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Product created successfully", product)
}

// PUT /admin/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	utils.LogInfo("UpdateProduct called")

	var req services.ProductPatch
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.Products.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.LogError("Failed to update product %s: %v", c.Param("id"), err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Product updated successfully", product)
}

// DELETE /admin/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	utils.LogInfo("DeleteProduct called")

	if err := h.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Product deleted successfully", nil)
}

// POST /admin/products/:id/upload-image
func (h *Handler) UploadProductImage(c *gin.Context) {
	utils.LogInfo("UploadProductImage called")

	dataURL, ok := formUpload(c, utils.ValidateImageFile)
	if !ok {
		return
	}
	if err := h.Products.SetImage(c.Request.Context(), c.Param("id"), dataURL); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Image uploaded successfully", gin.H{"image_url": dataURL})
}
