package models

import (
	"strings"
	"time"
)

// Coupon discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is a named discount rule. Code is always stored upper-case; a
// percentage coupon carries a percent (10 means 10%), never a fraction.
type Coupon struct {
	ID            string     `gorm:"primaryKey;size:64" bson:"id" json:"id"`
	Code          string     `gorm:"uniqueIndex;size:64" bson:"code" json:"code"`
	DiscountType  string     `gorm:"size:16" bson:"discount_type" json:"discount_type"`
	DiscountValue float64    `bson:"discount_value" json:"discount_value"`
	IsActive      bool       `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	ExpiresAt     *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// IsExpired reports whether the coupon's expiry instant lies before now.
func (c Coupon) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// NormalizeCouponCode returns the canonical stored form of a coupon code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Column names used for partial coupon updates
const (
	CouponFieldCode          = "code"
	CouponFieldDiscountType  = "discount_type"
	CouponFieldDiscountValue = "discount_value"
	CouponFieldIsActive      = "is_active"
	CouponFieldExpiresAt     = "expires_at"
)
