package controllers

import (
	"github.com/apebrain/shop-api/middleware"
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// POST /admin/login
func (h *Handler) AdminLogin(c *gin.Context) {
	utils.LogInfo("AdminLogin called")

	var req services.AdminLoginInput
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.Auth.AdminLogin(req)
	if err != nil {
		utils.LogError("Admin login failed for %q: %v", req.Username, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Admin logged in: %s", req.Username)
	utils.Success(c, session.Message, session)
}

// GET /admin/settings
func (h *Handler) AdminSettings(c *gin.Context) {
	utils.LogInfo("AdminSettings called")

	utils.Success(c, "Admin settings retrieved successfully", gin.H{
		"username":       h.Auth.AdminUsername(),
		"logged_in_as":   c.GetString(middleware.ContextAdmin),
		"landing":        h.Settings.Landing(c.Request.Context()),
		"blog_features":  h.Settings.BlogFeatures(c.Request.Context()),
		"color_profiles": h.Settings.ColorProfiles(c.Request.Context()),
	})
}
