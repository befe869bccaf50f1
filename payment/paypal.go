package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"

	"github.com/apebrain/shop-api/utils"
)

// PayPal modes
const (
	ModeSandbox = "sandbox"
	ModeLive    = "live"
)

// PayPal is a Gateway backed by PayPal's orders API.
type PayPal struct {
	client    *paypal.Client
	brandName string

	mu         sync.Mutex
	authorized bool
}

// NewPayPal builds a PayPal gateway for the given mode.
func NewPayPal(clientID, secret, mode, brandName string) (*PayPal, error) {
	base := paypal.APIBaseSandBox
	if mode == ModeLive {
		base = paypal.APIBaseLive
	}
	return newPayPal(clientID, secret, base, brandName)
}

func newPayPal(clientID, secret, apiBase, brandName string) (*PayPal, error) {
	client, err := paypal.NewClient(clientID, secret, apiBase)
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal client: %v", err)
	}
	return &PayPal{client: client, brandName: brandName}, nil
}

// authorize fetches the first access token; the client renews it afterwards.
func (p *PayPal) authorize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.authorized {
		return nil
	}
	if _, err := p.client.GetAccessToken(ctx); err != nil {
		return &GatewayError{Operation: "authenticate", Payload: errorPayload(err), Err: err}
	}
	p.authorized = true
	return nil
}

// CreateSession creates a PayPal order and returns its approval link.
func (p *PayPal) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}

	items := make([]paypal.Item, 0, len(req.Items))
	itemTotal := decimal.Zero
	for _, it := range req.Items {
		price := decimal.NewFromFloat(it.UnitPrice).Round(2)
		itemTotal = itemTotal.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		items = append(items, paypal.Item{
			Name:       it.Name,
			SKU:        it.SKU,
			Quantity:   strconv.Itoa(it.Quantity),
			UnitAmount: &paypal.Money{Currency: req.Currency, Value: price.StringFixed(2)},
		})
	}

	unit := paypal.PurchaseUnitRequest{
		Description: req.Description,
		Amount: &paypal.PurchaseUnitAmount{
			Currency: req.Currency,
			Value:    decimal.NewFromFloat(req.Total).StringFixed(2),
			Breakdown: &paypal.PurchaseUnitAmountBreakdown{
				ItemTotal: &paypal.Money{Currency: req.Currency, Value: itemTotal.StringFixed(2)},
			},
		},
		Items: items,
	}
	appCtx := &paypal.ApplicationContext{
		BrandName: p.brandName,
		ReturnURL: req.ReturnURL,
		CancelURL: req.CancelURL,
	}

	order, err := p.client.CreateOrder(ctx, paypal.OrderIntentCapture, []paypal.PurchaseUnitRequest{unit}, nil, appCtx)
	if err != nil {
		utils.LogError("PayPal order creation failed: %v", err)
		return nil, &GatewayError{Operation: "create", Payload: errorPayload(err), Err: err}
	}

	for _, link := range order.Links {
		if link.Rel == "approve" || link.Rel == "approval_url" {
			return &Session{ID: order.ID, ApprovalURL: link.Href}, nil
		}
	}
	return nil, &GatewayError{
		Operation: "create",
		Payload:   map[string]string{"order_id": order.ID, "status": order.Status},
		Err:       errors.New("approval link missing from gateway response"),
	}
}

// Execute captures an approved PayPal order.
func (p *PayPal) Execute(ctx context.Context, paymentID, payerID string) (*Execution, error) {
	if err := p.authorize(ctx); err != nil {
		return nil, err
	}

	captured, err := p.client.CaptureOrder(ctx, paymentID, paypal.CaptureOrderRequest{})
	if err != nil {
		utils.LogError("PayPal capture of %s failed: %v", paymentID, err)
		return nil, &GatewayError{Operation: "execute", Payload: errorPayload(err), Err: err}
	}

	exec := &Execution{PaymentID: captured.ID, PayerID: payerID, State: captured.Status}
	if captured.Payer != nil && captured.Payer.PayerID != "" {
		exec.PayerID = captured.Payer.PayerID
	}
	if exec.PaymentID == "" {
		exec.PaymentID = paymentID
	}
	return exec, nil
}

// errorPayload extracts the provider's structured error body when present.
func errorPayload(err error) interface{} {
	var apiErr *paypal.ErrorResponse
	if errors.As(err, &apiErr) {
		return map[string]interface{}{
			"name":     apiErr.Name,
			"message":  apiErr.Message,
			"debug_id": apiErr.DebugID,
			"details":  apiErr.Details,
		}
	}
	return map[string]string{"message": err.Error()}
}
