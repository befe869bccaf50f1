package routes

import (
	"github.com/apebrain/shop-api/config"
	"github.com/apebrain/shop-api/controllers"
	"github.com/apebrain/shop-api/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup, cfg *config.Config, h *controllers.Handler) {
	router.POST("/admin/login", h.AdminLogin)

	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret))
	{
		admin.GET("/settings", h.AdminSettings)

		// Order management
		admin.GET("/orders", h.AdminListOrders)
		admin.GET("/orders/export", h.ExportOrdersExcel)
		admin.GET("/orders/unviewed/count", h.UnviewedOrderCount)
		admin.GET("/orders/:id", h.AdminGetOrder)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
		admin.PUT("/orders/:id/tracking", h.UpdateOrderTracking)
		admin.POST("/orders/:id/mark-viewed", h.MarkOrderViewed)
		admin.POST("/orders/:id/viewed", h.MarkOrderViewed)
		admin.DELETE("/orders/:id", h.AdminDeleteOrder)

		// Coupon management
		admin.GET("/coupons", h.ListCoupons)
		admin.POST("/coupons", h.CreateCoupon)
		admin.PUT("/coupons/:id", h.UpdateCoupon)
		admin.DELETE("/coupons/:id", h.DeleteCoupon)

		// Product management
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)
		admin.POST("/products/:id/upload-image", h.UploadProductImage)

		// Blog management
		admin.POST("/blogs/generate", h.GenerateBlog)
		admin.POST("/blogs", h.CreateBlog)
		admin.PUT("/blogs/:id", h.UpdateBlog)
		admin.DELETE("/blogs/:id", h.DeleteBlog)
		admin.POST("/blogs/:id/publish", h.PublishBlog)
		admin.POST("/blogs/:id/upload-image", h.UploadBlogImage)
		admin.POST("/blogs/:id/upload-audio", h.UploadBlogAudio)
		admin.GET("/fetch-images", h.FetchImages)
		admin.GET("/fetch-image", h.FetchImage)

		// Site settings
		admin.POST("/landing-settings", h.SaveLandingSettings)
		admin.POST("/landing-settings/upload-gallery-image/:section", h.UploadGalleryImage)
		admin.POST("/blog-features", h.SaveBlogFeatures)
		admin.POST("/color-profiles", h.CreateColorProfile)
		admin.DELETE("/color-profiles/:id", h.DeleteColorProfile)
	}
}
