package routes

import (
	"net/http"

	"github.com/apebrain/shop-api/config"
	"github.com/apebrain/shop-api/controllers"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "apebrain"

// SetupRouter initializes and returns the Gin router with all routes under /api
func SetupRouter(cfg *config.Config, h *controllers.Handler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware(cfg.CORSOrigins))
	router.Use(utils.SecurityHeadersMiddleware())

	// Sessions only carry the Google OAuth state between url and verify
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 10,
		Path:     "/",
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	api := router.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			utils.Success(c, "ApeBrain.cloud API", gin.H{"status": "ok"})
		})

		initUserRoutes(api, cfg, h)
		initAdminRoutes(api, cfg, h)
	}

	return router
}
