package routes

import (
	"github.com/apebrain/shop-api/config"
	"github.com/apebrain/shop-api/controllers"
	"github.com/apebrain/shop-api/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes registers the storefront and customer account routes
func initUserRoutes(router *gin.RouterGroup, cfg *config.Config, h *controllers.Handler) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/password-reset-request", h.RequestPasswordReset)
		auth.POST("/password-reset", h.ResetPassword)
		auth.GET("/google/url", h.GoogleAuthURL)
		auth.POST("/google/verify", h.GoogleVerify)

		// Customer routes (bearer token)
		customer := auth.Group("")
		customer.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			customer.GET("/me", h.Me)
			customer.GET("/orders", h.MyOrders)
		}
	}

	// Shop
	router.GET("/products", h.ListProducts)
	router.POST("/shop/create-order", h.CreateOrder)
	router.POST("/shop/execute-payment", h.ExecutePayment)
	router.GET("/track-order", h.TrackOrder)
	router.GET("/orders/:id/invoice", h.DownloadInvoice)
	router.GET("/coupons/active", h.ActiveCoupon)
	router.POST("/coupons/validate", h.ValidateCoupon)

	// Blog
	router.GET("/blogs", h.ListBlogs)
	router.GET("/blogs/:id", h.GetBlog)

	// Site settings
	router.GET("/landing-settings", h.LandingSettings)
	router.GET("/blog-features", h.BlogFeatures)
	router.GET("/color-profiles", h.ColorProfiles)
}
