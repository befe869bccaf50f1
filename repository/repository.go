// Package repository declares the persistence contracts used by the services.
// Every method is a single-document operation; partial updates take a map of
// column name to value and are applied atomically by the backing store.
package repository

import (
	"context"
	"errors"

	"github.com/apebrain/shop-api/models"
)

var (
	// ErrNotFound is returned when a filter matches no document.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate key")
)

// Fields is a set of column/value pairs applied with a single update.
type Fields map[string]interface{}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]models.Order, error)
	Update(ctx context.Context, id string, fields Fields) error
	UpdateByPaymentID(ctx context.Context, paymentID string, fields Fields) error
	Delete(ctx context.Context, id string) error
	CountUnviewed(ctx context.Context, status string) (int64, error)
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByID(ctx context.Context, id string) (*models.Coupon, error)
	// FindActiveByCode matches the stored upper-case code of an active coupon.
	FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
	// FindFirstActive returns the oldest active coupon, used for the shop banner.
	FindFirstActive(ctx context.Context) (*models.Coupon, error)
	// CodeTaken reports whether another coupon than excludeID owns code.
	CodeTaken(ctx context.Context, code string, excludeID string) (bool, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*models.User, error)
	Update(ctx context.Context, id string, fields Fields) error
}

type ResetTokenRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	FindUnused(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, token string) error
}

type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
	// ImageURLs returns up to limit non-empty product image URLs.
	ImageURLs(ctx context.Context, limit int) ([]string, error)
}

type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	FindByID(ctx context.Context, id string) (*models.BlogPost, error)
	// List returns posts newest first; an empty status returns every post.
	List(ctx context.Context, status string) ([]models.BlogPost, error)
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
}

type SettingsRepository interface {
	Get(ctx context.Context, settingType string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
	ListColorProfiles(ctx context.Context) ([]models.ColorProfile, error)
	CreateColorProfile(ctx context.Context, profile *models.ColorProfile) error
	DeleteColorProfile(ctx context.Context, id string) error
}

// Store bundles every repository behind one backend.
type Store struct {
	Orders      OrderRepository
	Coupons     CouponRepository
	Users       UserRepository
	ResetTokens ResetTokenRepository
	Products    ProductRepository
	Blogs       BlogRepository
	Settings    SettingsRepository

	// Close releases the backend connection.
	Close func(ctx context.Context) error
}
