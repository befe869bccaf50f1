package controllers

import (
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// GET /landing-settings
func (h *Handler) LandingSettings(c *gin.Context) {
	utils.LogInfo("LandingSettings called")
	utils.Success(c, "Landing settings retrieved", h.Settings.Landing(c.Request.Context()))
}

// POST /admin/landing-settings
func (h *Handler) SaveLandingSettings(c *gin.Context) {
	utils.LogInfo("SaveLandingSettings called")

	req := services.DefaultLandingSettings()
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Settings.SaveLanding(c.Request.Context(), req); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Landing settings updated", req)
}

// POST /admin/landing-settings/upload-gallery-image/:section
func (h *Handler) UploadGalleryImage(c *gin.Context) {
	utils.LogInfo("UploadGalleryImage called")

	section := c.Param("section")
	dataURL, ok := formUpload(c, utils.ValidateImageFile)
	if !ok {
		return
	}
	if err := h.Settings.AddGalleryImage(c.Request.Context(), section, dataURL); err != nil {
		utils.LogError("Failed to add %s gallery image: %v", section, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Gallery image uploaded", gin.H{"image_url": dataURL, "section": section})
}

// GET /blog-features
func (h *Handler) BlogFeatures(c *gin.Context) {
	utils.LogInfo("BlogFeatures called")
	utils.Success(c, "Blog features retrieved", h.Settings.BlogFeatures(c.Request.Context()))
}

// POST /admin/blog-features
func (h *Handler) SaveBlogFeatures(c *gin.Context) {
	utils.LogInfo("SaveBlogFeatures called")

	req := services.DefaultBlogFeatures()
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Settings.SaveBlogFeatures(c.Request.Context(), req); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Blog features updated", req)
}

// GET /color-profiles
func (h *Handler) ColorProfiles(c *gin.Context) {
	utils.LogInfo("ColorProfiles called")
	utils.Success(c, "Color profiles retrieved", gin.H{"profiles": h.Settings.ColorProfiles(c.Request.Context())})
}

// POST /admin/color-profiles
func (h *Handler) CreateColorProfile(c *gin.Context) {
	utils.LogInfo("CreateColorProfile called")

	var req services.ColorProfileInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.Settings.CreateColorProfile(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Color profile created", profile)
}

// DELETE /admin/color-profiles/:id
func (h *Handler) DeleteColorProfile(c *gin.Context) {
	utils.LogInfo("DeleteColorProfile called")

	if err := h.Settings.DeleteColorProfile(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Color profile deleted", nil)
}
