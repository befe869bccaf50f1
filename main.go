package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apebrain/shop-api/config"
	"github.com/apebrain/shop-api/content"
	"github.com/apebrain/shop-api/controllers"
	"github.com/apebrain/shop-api/notify"
	"github.com/apebrain/shop-api/payment"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/repository/gormstore"
	"github.com/apebrain/shop-api/repository/mongostore"
	"github.com/apebrain/shop-api/routes"
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
)

const brandName = "ApeBrain.cloud"

func main() {
	// Initialize logger
	if err := utils.InitLogger("logs"); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.SyncLogger()

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	if err := utils.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators:", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		utils.LogError("Failed to open %s store: %v", cfg.DBDriver, err)
		log.Fatal("Failed to open store:", err)
	}

	dispatcher := notify.NewDispatcher(
		notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		cfg.NotifyWorkers, 100, 30*time.Second,
	)
	mail := notify.NewComposer(cfg.NotificationEmail)
	if cfg.NotificationEmail == "" {
		utils.LogWarn("NOTIFICATION_EMAIL not set, operator notifications are disabled")
	}

	coupons := services.NewCouponService(store.Coupons, nil)
	orders := services.NewOrderService(store.Orders, coupons, newGateway(cfg), dispatcher, mail, services.OrderOptions{
		Currency:       cfg.PayPalCurrency,
		FrontendURL:    cfg.FrontendURL,
		UnviewedStatus: cfg.UnviewedStatusFilter,
	}, nil)
	auth := services.NewAuthService(store.Users, store.ResetTokens, dispatcher, mail, services.AuthOptions{
		JWTSecret:          cfg.JWTSecret,
		TokenTTL:           cfg.TokenTTL,
		AdminUsername:      cfg.AdminUsername,
		AdminPassword:      cfg.AdminPassword,
		FrontendURL:        cfg.FrontendURL,
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
	}, nil, nil)

	drafter, closeDrafter := newDrafter(ctx, cfg)
	defer closeDrafter()
	var images services.ImageSearcher
	if cfg.PexelsAPIKey != "" {
		images = content.NewPexels(cfg.PexelsAPIKey, 30*time.Second)
	} else {
		utils.LogWarn("PEXELS_API_KEY not set, image search is disabled")
	}

	handler := &controllers.Handler{
		Orders:   orders,
		Coupons:  coupons,
		Auth:     auth,
		Blogs:    services.NewBlogService(store.Blogs, drafter, images, nil),
		Products: services.NewProductService(store.Products),
		Settings: services.NewSettingsService(store.Settings, store.Blogs, store.Products, nil),
	}

	// Set up router
	router := routes.SetupRouter(cfg, handler)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Server shutdown failed: %v", err)
	}
	dispatcher.Close()
	if err := store.Close(shutdownCtx); err != nil {
		utils.LogError("Failed to close store: %v", err)
	}
	utils.LogInfo("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	if cfg.DBDriver == config.DriverMongo {
		db, err := config.OpenMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return mongostore.New(db), nil
	}
	db, err := config.OpenPostgres(cfg)
	if err != nil {
		return nil, err
	}
	return gormstore.New(db), nil
}

// newGateway returns nil when PayPal is not configured; checkout then fails
// with an internal error instead of the server refusing to start.
func newGateway(cfg *config.Config) payment.Gateway {
	if cfg.PayPalClientID == "" || cfg.PayPalClientSecret == "" {
		utils.LogWarn("PayPal credentials not set, checkout is disabled")
		return nil
	}
	gateway, err := payment.NewPayPal(cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalMode, brandName)
	if err != nil {
		utils.LogError("Failed to configure PayPal: %v", err)
		return nil
	}
	return gateway
}

func newDrafter(ctx context.Context, cfg *config.Config) (services.Drafter, func()) {
	if cfg.GeminiAPIKey == "" {
		utils.LogWarn("GEMINI_API_KEY not set, blog generation is disabled")
		return nil, func() {}
	}
	gemini, err := content.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		utils.LogError("Failed to configure Gemini: %v", err)
		return nil, func() {}
	}
	return gemini, func() {
		if err := gemini.Close(); err != nil {
			utils.LogError("Failed to close Gemini client: %v", err)
		}
	}
}
