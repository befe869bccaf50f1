package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/notify"
	"github.com/apebrain/shop-api/payment"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/repository/memory"
)

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// recordingQueue collects dispatched messages instead of sending them.
type recordingQueue struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (q *recordingQueue) Dispatch(msg notify.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
}

func (q *recordingQueue) messages() []notify.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]notify.Message(nil), q.sent...)
}

func (q *recordingQueue) reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = nil
}

// fakeGateway records the last session request and answers with canned data.
type fakeGateway struct {
	lastRequest payment.SessionRequest
	createErr   error
	executeErr  error
	executed    []string
}

func (g *fakeGateway) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	g.lastRequest = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &payment.Session{ID: "PAY-123", ApprovalURL: "https://paypal.test/approve?token=PAY-123"}, nil
}

func (g *fakeGateway) Execute(_ context.Context, paymentID, payerID string) (*payment.Execution, error) {
	if g.executeErr != nil {
		return nil, g.executeErr
	}
	g.executed = append(g.executed, paymentID)
	return &payment.Execution{PaymentID: paymentID, PayerID: payerID, State: "COMPLETED"}, nil
}

type orderFixture struct {
	store   *repository.Store
	queue   *recordingQueue
	gateway *fakeGateway
	coupons *CouponService
	orders  *OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	store := memory.New()
	queue := &recordingQueue{}
	gateway := &fakeGateway{}
	coupons := NewCouponService(store.Coupons, fixedClock)
	composer := &notify.Composer{Operator: "ops@apebrain.cloud", Now: fixedClock}
	orders := NewOrderService(store.Orders, coupons, gateway, queue, composer, OrderOptions{
		FrontendURL: "https://apebrain.cloud",
	}, fixedClock)
	return &orderFixture{store: store, queue: queue, gateway: gateway, coupons: coupons, orders: orders}
}

func seedCoupon(t *testing.T, store *repository.Store, code, discountType string, value float64, active bool, expires *time.Time) {
	t.Helper()
	require.NoError(t, store.Coupons.Create(context.Background(), &models.Coupon{
		ID:            code + "-id",
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: value,
		IsActive:      active,
		CreatedAt:     testNow,
		ExpiresAt:     expires,
	}))
}

func seedOrder(t *testing.T, store *repository.Store, id, email, status string) {
	t.Helper()
	require.NoError(t, store.Orders.Create(context.Background(), &models.Order{
		ID:            id,
		PaymentID:     "PAY-" + id,
		Items:         []models.OrderItem{{ProductID: "phys-1", Name: "Lion's Mane", Price: 34.50, Quantity: 2}},
		Total:         69.00,
		CustomerEmail: email,
		Status:        status,
		CreatedAt:     testNow,
	}))
}
