package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/notify"
	"github.com/apebrain/shop-api/payment"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/utils"
)

// OrderOptions configures checkout and the admin dashboard.
type OrderOptions struct {
	Currency    string
	FrontendURL string
	Description string
	// UnviewedStatus is the status counted by the unviewed-orders badge.
	UnviewedStatus string
}

// OrderService drives an order from checkout to delivery. Transitions are
// advisory: any recognized status may follow any other, and every call
// re-runs the side effects of the status it sets.
type OrderService struct {
	orders  repository.OrderRepository
	coupons *CouponService
	gateway payment.Gateway
	queue   notify.Queue
	mail    *notify.Composer
	opts    OrderOptions
	now     func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	coupons *CouponService,
	gateway payment.Gateway,
	queue notify.Queue,
	mail *notify.Composer,
	opts OrderOptions,
	now func() time.Time,
) *OrderService {
	if now == nil {
		now = time.Now
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	if opts.Description == "" {
		opts.Description = "ApeBrain.cloud Shop Purchase"
	}
	if opts.UnviewedStatus == "" {
		opts.UnviewedStatus = "completed"
	}
	return &OrderService{
		orders:  orders,
		coupons: coupons,
		gateway: gateway,
		queue:   queue,
		mail:    mail,
		opts:    opts,
		now:     now,
	}
}

// CreateOrderInput is a checkout request. Total is the amount the customer
// saw, already discounted; it is charged as is.
type CreateOrderInput struct {
	Items         []models.OrderItem `json:"items" binding:"required,min=1,dive"`
	Total         float64            `json:"total" binding:"gte=0"`
	CustomerEmail string             `json:"customer_email" binding:"required,email"`
	CouponCode    string             `json:"coupon_code"`
}

// Checkout is the outcome of a created order.
type Checkout struct {
	Success     bool   `json:"success"`
	ApprovalURL string `json:"approval_url"`
	OrderID     string `json:"order_id"`
	PaymentID   string `json:"payment_id"`
}

// PaymentConfirmation is the outcome of an executed payment.
type PaymentConfirmation struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PaymentID string `json:"payment_id"`
}

// TrackingInput names a shipment; Carrier defaults to DHL.
type TrackingInput struct {
	TrackingNumber  string `json:"tracking_number" form:"tracking_number"`
	ShippingCarrier string `json:"shipping_carrier" form:"shipping_carrier"`
}

// OrderView is the customer-facing projection of an order.
type OrderView struct {
	ID              string             `json:"id"`
	Items           []models.OrderItem `json:"items"`
	Total           float64            `json:"total"`
	CustomerEmail   string             `json:"customer_email"`
	CouponCode      string             `json:"coupon_code,omitempty"`
	DiscountAmount  float64            `json:"discount_amount"`
	Status          string             `json:"status"`
	TrackingNumber  string             `json:"tracking_number,omitempty"`
	ShippingCarrier string             `json:"shipping_carrier,omitempty"`
	TrackingURL     string             `json:"tracking_url,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	ShippedAt       *time.Time         `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty"`
}

// NewOrderView strips payment identifiers and admin flags from an order.
func NewOrderView(o models.Order) OrderView {
	return OrderView{
		ID:              o.ID,
		Items:           o.Items,
		Total:           o.Total,
		CustomerEmail:   o.CustomerEmail,
		CouponCode:      o.CouponCode,
		DiscountAmount:  o.DiscountAmount,
		Status:          o.Status,
		TrackingNumber:  o.TrackingNumber,
		ShippingCarrier: o.ShippingCarrier,
		TrackingURL:     o.TrackingURL,
		CreatedAt:       o.CreatedAt,
		CompletedAt:     o.CompletedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
	}
}

var errOrderNotFound = utils.NotFoundError("Order not found", nil)

func gatewayFailure(message string, err error) error {
	var gwErr *payment.GatewayError
	if errors.As(err, &gwErr) {
		return utils.UpstreamError(message, gwErr.Payload, err)
	}
	return utils.UpstreamError(message, nil, err)
}

// CreateOrder prices the cart, opens a gateway session and stores the order
// as pending.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*Checkout, error) {
	if s.gateway == nil {
		return nil, utils.InternalError("Payment gateway not configured", nil)
	}

	lines := make([]CartLine, len(in.Items))
	for i, it := range in.Items {
		lines[i] = CartLine{UnitPrice: it.Price, Quantity: it.Quantity}
	}
	priced, err := s.coupons.PriceCart(ctx, lines, in.CouponCode)
	if err != nil {
		return nil, err
	}
	utils.LogDebug("Cart priced: subtotal %.2f, discount %.2f, client total %.2f",
		priced.Subtotal, priced.DiscountAmount, in.Total)

	items := make([]payment.LineItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = payment.LineItem{
			Name:      it.Name,
			SKU:       it.ProductID,
			UnitPrice: priced.AdjustedPrices[i],
			Quantity:  it.Quantity,
		}
	}
	session, err := s.gateway.CreateSession(ctx, payment.SessionRequest{
		Items:       items,
		Total:       in.Total,
		Currency:    s.opts.Currency,
		Description: s.opts.Description,
		ReturnURL:   s.opts.FrontendURL + "/payment/success",
		CancelURL:   s.opts.FrontendURL + "/payment/cancel",
	})
	if err != nil {
		return nil, gatewayFailure("Payment creation failed", err)
	}

	for i := range in.Items {
		if in.Items[i].ProductType == "" {
			in.Items[i].ProductType = models.ProductTypePhysical
		}
	}
	order := &models.Order{
		ID:             uuid.New().String(),
		PaymentID:      session.ID,
		Items:          in.Items,
		Total:          in.Total,
		CustomerEmail:  strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		CouponCode:     strings.TrimSpace(in.CouponCode),
		DiscountAmount: priced.DiscountAmount,
		Status:         models.OrderStatusPending,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, utils.InternalError("Failed to create order", err)
	}
	utils.LogInfo("Order %s created with payment %s", order.ID, session.ID)

	return &Checkout{
		Success:     true,
		ApprovalURL: session.ApprovalURL,
		OrderID:     order.ID,
		PaymentID:   session.ID,
	}, nil
}

// ConfirmPayment executes an approved payment and marks its order paid. A
// payment with no matching order still succeeds.
func (s *OrderService) ConfirmPayment(ctx context.Context, paymentID, payerID string) (*PaymentConfirmation, error) {
	if s.gateway == nil {
		return nil, utils.InternalError("Payment gateway not configured", nil)
	}
	if paymentID == "" || payerID == "" {
		return nil, utils.InvalidInputError("payment_id and payer_id are required", nil)
	}

	exec, err := s.gateway.Execute(ctx, paymentID, payerID)
	if err != nil {
		return nil, gatewayFailure("Payment execution failed", err)
	}
	if exec.PayerID != "" {
		payerID = exec.PayerID
	}

	err = s.orders.UpdateByPaymentID(ctx, paymentID, repository.Fields{
		models.OrderFieldStatus:      models.OrderStatusPaid,
		models.OrderFieldPayerID:     payerID,
		models.OrderFieldCompletedAt: s.now().UTC(),
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.LogWarn("Order not found for payment_id: %s", paymentID)
	case err != nil:
		return nil, utils.InternalError("Failed to update order", err)
	default:
		order, err := s.orders.FindByPaymentID(ctx, paymentID)
		if err != nil {
			utils.LogError("Paid order for payment %s could not be reloaded: %v", paymentID, err)
			break
		}
		s.queue.Dispatch(s.mail.NewPaidOrder(*order))
		s.queue.Dispatch(s.mail.CustomerStatus(*order))
	}

	return &PaymentConfirmation{
		Success:   true,
		Message:   "Payment completed successfully",
		PaymentID: paymentID,
	}, nil
}

// SetStatus moves an order to status. Shipping stamps shipped_at and, when a
// tracking number is given, stores the tracking link; delivery stamps
// delivered_at.
func (s *OrderService) SetStatus(ctx context.Context, id, status string, tracking *TrackingInput) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, utils.InvalidInputError("Invalid status", nil)
	}

	now := s.now().UTC()
	fields := repository.Fields{models.OrderFieldStatus: status}
	switch status {
	case models.OrderStatusShipped:
		fields[models.OrderFieldShippedAt] = now
		if tracking != nil && strings.TrimSpace(tracking.TrackingNumber) != "" {
			number := strings.TrimSpace(tracking.TrackingNumber)
			carrier := strings.TrimSpace(tracking.ShippingCarrier)
			if carrier == "" {
				carrier = DefaultCarrier
			}
			fields[models.OrderFieldTrackingNumber] = number
			fields[models.OrderFieldShippingCarrier] = carrier
			fields[models.OrderFieldTrackingURL] = TrackingURL(carrier, number)
		}
	case models.OrderStatusDelivered:
		fields[models.OrderFieldDeliveredAt] = now
	}

	if err := s.orders.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errOrderNotFound
		}
		return nil, utils.InternalError("Failed to update order status", err)
	}
	utils.LogInfo("Order %s set to %s", id, status)

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError("Failed to reload order", err)
	}

	switch status {
	case models.OrderStatusShipped:
		s.queue.Dispatch(s.mail.CustomerStatus(*order))
	case models.OrderStatusDelivered:
		s.queue.Dispatch(s.mail.CustomerStatus(*order))
		s.queue.Dispatch(s.mail.DeliveryCompleted(*order))
	}
	return order, nil
}

// SetTracking records a shipment and marks the order shipped.
func (s *OrderService) SetTracking(ctx context.Context, id string, in TrackingInput) (*models.Order, error) {
	if strings.TrimSpace(in.TrackingNumber) == "" {
		return nil, utils.InvalidInputError("tracking_number is required", nil)
	}
	return s.SetStatus(ctx, id, models.OrderStatusShipped, &in)
}

func (s *OrderService) MarkViewed(ctx context.Context, id string) error {
	err := s.orders.Update(ctx, id, repository.Fields{models.OrderFieldViewed: true})
	if errors.Is(err, repository.ErrNotFound) {
		return errOrderNotFound
	}
	if err != nil {
		return utils.InternalError("Failed to update order", err)
	}
	return nil
}

// UnviewedCount feeds the admin badge; lookup failures count as zero.
func (s *OrderService) UnviewedCount(ctx context.Context) int64 {
	count, err := s.orders.CountUnviewed(ctx, s.opts.UnviewedStatus)
	if err != nil {
		utils.LogError("Error counting unviewed orders: %v", err)
		return 0
	}
	return count
}

// Track returns an order to a customer who knows its id and e-mail.
func (s *OrderService) Track(ctx context.Context, id, email string) (*OrderView, error) {
	notFound := utils.NotFoundError("Order not found or email doesn't match", nil)
	if id == "" || email == "" {
		return nil, notFound
	}
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, utils.InternalError("Failed to track order", err)
	}
	if !strings.EqualFold(strings.TrimSpace(order.CustomerEmail), strings.TrimSpace(email)) {
		return nil, notFound
	}
	view := NewOrderView(*order)
	return &view, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errOrderNotFound
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch order", err)
	}
	return order, nil
}

// List returns every order, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, utils.InternalError("Failed to fetch orders", err)
	}
	return orders, nil
}

// ListForCustomer returns a customer's recent orders, newest first.
func (s *OrderService) ListForCustomer(ctx context.Context, email string) ([]OrderView, error) {
	orders, err := s.orders.ListByEmail(ctx, strings.ToLower(strings.TrimSpace(email)), 100)
	if err != nil {
		return nil, utils.InternalError("Failed to fetch orders", err)
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	err := s.orders.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errOrderNotFound
	}
	if err != nil {
		return utils.InternalError("Failed to delete order", err)
	}
	utils.LogInfo("Order %s deleted", id)
	return nil
}
