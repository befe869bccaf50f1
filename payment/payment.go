// Package payment creates and executes hosted checkout sessions with an
// external payment gateway.
package payment

import (
	"context"
	"fmt"
)

// LineItem is one item as the gateway sees it; UnitPrice is already
// discounted and rounded to two decimals.
type LineItem struct {
	Name      string
	SKU       string
	UnitPrice float64
	Quantity  int
}

// SessionRequest describes a checkout the customer must approve.
type SessionRequest struct {
	Items       []LineItem
	Total       float64
	Currency    string
	Description string
	ReturnURL   string
	CancelURL   string
}

// Session is an approved-pending checkout.
type Session struct {
	ID          string
	ApprovalURL string
}

// Execution is the outcome of a completed checkout.
type Execution struct {
	PaymentID string
	PayerID   string
	State     string
}

// Gateway is the payment provider used by the shop.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	Execute(ctx context.Context, paymentID, payerID string) (*Execution, error)
}

// GatewayError is a structured failure reported by the provider. Payload is
// passed through to the client untouched.
type GatewayError struct {
	Operation string
	Payload   interface{}
	Err       error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Operation, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
