package controllers

import (
	"github.com/apebrain/shop-api/middleware"
	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type GoogleVerifyRequest struct {
	Credential string `json:"credential"`
	State      string `json:"state"`
}

// currentUser loads the account behind the customer token.
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "Please login for access")
		return nil, false
	}
	user, err := h.Auth.Me(c.Request.Context(), userID)
	if err != nil {
		utils.LogError("Failed to load user %s: %v", userID, err)
		utils.RespondError(c, err)
		return nil, false
	}
	return user, true
}

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	utils.LogInfo("Register called")

	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		utils.LogError("Registration failed for %s: %v", req.Email, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("User registered: %s", session.User.ID)
	utils.Created(c, "Registration successful", session)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	utils.LogInfo("Login called")

	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		utils.LogError("Login failed for %s: %v", req.Email, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("User logged in: %s", session.User.ID)
	utils.Success(c, "Login successful", session)
}

// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	utils.LogInfo("Me called")

	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	utils.Success(c, "Profile retrieved successfully", user)
}

// POST /auth/password-reset-request
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	utils.LogInfo("RequestPasswordReset called")

	var req PasswordResetRequest
	if !bindJSON(c, &req) {
		return
	}

	message := h.Auth.RequestPasswordReset(c.Request.Context(), req.Email)
	utils.Success(c, message, gin.H{"message": message})
}

// POST /auth/password-reset
func (h *Handler) ResetPassword(c *gin.Context) {
	utils.LogInfo("ResetPassword called")

	var req services.PasswordResetInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Auth.ResetPassword(c.Request.Context(), req); err != nil {
		utils.LogError("Password reset failed: %v", err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Password reset successful", nil)
}

// GET /auth/google/url
func (h *Handler) GoogleAuthURL(c *gin.Context) {
	utils.LogInfo("GoogleAuthURL called")

	state, err := utils.NewOAuthState(c)
	if err != nil {
		utils.LogError("Failed to create oauth state: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to start Google login", err))
		return
	}

	url, err := h.Auth.GoogleAuthURL(state)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Google auth URL generated", gin.H{"auth_url": url, "state": state})
}

// POST /auth/google/verify
func (h *Handler) GoogleVerify(c *gin.Context) {
	utils.LogInfo("GoogleVerify called")

	var req GoogleVerifyRequest
	if !bindJSON(c, &req) {
		return
	}
	if !utils.ConsumeOAuthState(c, req.State) {
		utils.LogError("Google login with unknown oauth state")
		utils.Unauthorized(c, "Invalid state")
		return
	}

	session, err := h.Auth.GoogleLogin(c.Request.Context(), req.Credential)
	if err != nil {
		utils.LogError("Google login failed: %v", err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Google user logged in: %s", session.User.ID)
	utils.Success(c, "Login successful", session)
}
