package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusPacked    = "packed"
	OrderStatusShipped   = "shipped"
	OrderStatusInTransit = "in_transit"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every recognized status in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether status is one of the recognized values.
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus reports whether no further transition is expected.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// Product types carried on order items
const (
	ProductTypePhysical = "physical"
	ProductTypeDigital  = "digital"
)

// Order is stored as a single document; Items is a snapshot taken at checkout
// and never follows later product edits.
type Order struct {
	ID              string      `gorm:"primaryKey;size:64" bson:"id" json:"id"`
	PaymentID       string      `gorm:"index;size:128" bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	PayerID         string      `gorm:"size:128" bson:"payer_id,omitempty" json:"payer_id,omitempty"`
	Items           []OrderItem `gorm:"serializer:json" bson:"items" json:"items"`
	Total           float64     `bson:"total" json:"total"`
	CustomerEmail   string      `gorm:"index" bson:"customer_email" json:"customer_email"`
	CouponCode      string      `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	DiscountAmount  float64     `bson:"discount_amount" json:"discount_amount"`
	Status          string      `gorm:"index;size:32" bson:"status" json:"status"`
	TrackingNumber  string      `bson:"tracking_number,omitempty" json:"tracking_number,omitempty"`
	ShippingCarrier string      `bson:"shipping_carrier,omitempty" json:"shipping_carrier,omitempty"`
	TrackingURL     string      `bson:"tracking_url,omitempty" json:"tracking_url,omitempty"`
	Viewed          bool        `bson:"viewed" json:"viewed"`
	CreatedAt       time.Time   `bson:"created_at" json:"created_at"`
	CompletedAt     *time.Time  `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	ShippedAt       *time.Time  `bson:"shipped_at,omitempty" json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time  `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
}

type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"product_id" binding:"required"`
	Name        string  `bson:"name" json:"name" binding:"required"`
	Price       float64 `bson:"price" json:"price" binding:"gte=0"`
	Quantity    int     `bson:"quantity" json:"quantity" binding:"required,gt=0"`
	ProductType string  `bson:"product_type" json:"product_type" binding:"omitempty,oneof=physical digital"`
}

// LineTotal is the undiscounted price of the line.
func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Column names shared by the gorm and mongo stores for partial updates.
const (
	OrderFieldStatus          = "status"
	OrderFieldPayerID         = "payer_id"
	OrderFieldCompletedAt     = "completed_at"
	OrderFieldShippedAt       = "shipped_at"
	OrderFieldDeliveredAt     = "delivered_at"
	OrderFieldTrackingNumber  = "tracking_number"
	OrderFieldShippingCarrier = "shipping_carrier"
	OrderFieldTrackingURL     = "tracking_url"
	OrderFieldViewed          = "viewed"
)
