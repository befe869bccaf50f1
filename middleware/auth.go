package middleware

import (
	"net/http"
	"strings"

	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares
const (
	ContextUserID = "user_id"
	ContextAdmin  = "admin"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

// AuthMiddleware admits requests carrying a customer token and stores the
// user id under ContextUserID.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AuthMiddleware called")

		tokenString, ok := bearerToken(c)
		if !ok {
			utils.LogError("Missing or malformed Authorization header")
			utils.Unauthorized(c, "Please login for access")
			return
		}

		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			utils.Unauthorized(c, "Please login for access")
			return
		}
		if claims.Role != utils.RoleCustomer {
			utils.LogError("Token with role %q used on customer route", claims.Role)
			utils.Unauthorized(c, "Please login for access")
			return
		}

		c.Set(ContextUserID, claims.Subject)
		utils.LogDebug("User %s authenticated", claims.Subject)
		c.Next()
	}
}

// AdminAuthMiddleware admits requests carrying an admin token.
func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AdminAuthMiddleware called")

		tokenString, ok := bearerToken(c)
		if !ok {
			utils.LogError("Missing or malformed Authorization header")
			utils.Unauthorized(c, "Authorization header is required")
			return
		}

		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			utils.LogError("Invalid admin token: %v", err)
			utils.Unauthorized(c, "Please login for access")
			return
		}
		if claims.Role != utils.RoleAdmin {
			utils.LogError("Non-admin token attempted admin access: %s", claims.Subject)
			utils.Error(c, http.StatusForbidden, utils.KindUnauthorized, "Admin access required", nil)
			return
		}

		c.Set(ContextAdmin, claims.Subject)
		utils.LogDebug("Admin %s authenticated", claims.Subject)
		c.Next()
	}
}
