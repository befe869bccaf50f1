package routes

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/utils"
)

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/admin/orders"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authorization header is required", resp.Message)

	customer, err := utils.GenerateToken(testSecret, "user-1", utils.RoleCustomer, time.Hour)
	require.NoError(t, err)
	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/admin/orders", Token: customer})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/admin/orders", Token: s.adminToken(t)})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", resp.Status)
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/admin/login", Body: map[string]string{
		"username": testAdminUser,
		"password": "guess",
	}})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", resp.Message)
	assert.Equal(t, utils.KindUnauthorized, resp.Data["kind"])
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	resp := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/admin/coupons", Token: admin, Body: map[string]interface{}{
		"code":           "spring10",
		"discount_type":  models.DiscountTypePercentage,
		"discount_value": 10,
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "SPRING10", resp.Data["code"])

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/coupons/validate", Body: map[string]interface{}{
		"code":        "Spring10",
		"order_total": 50,
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resp.Data["valid"])
	assert.InDelta(t, 5.0, resp.Data["discount_amount"], 0.001)

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/shop/create-order", Body: map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "phys-1", "name": "Lion's Mane Extract", "price": 29.99, "quantity": 2},
		},
		"total":          53.98,
		"customer_email": "buyer@example.com",
		"coupon_code":    "SPRING10",
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orderID, _ := resp.Data["order_id"].(string)
	require.NotEmpty(t, orderID)
	assert.Equal(t, "PAY-ROUTE-1", resp.Data["payment_id"])
	assert.Contains(t, resp.Data["approval_url"], "PAY-ROUTE-1")

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/shop/execute-payment?paymentId=PAY-ROUTE-1&PayerID=PAYER-9"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resp.Data["success"])
	assert.Equal(t, 2, s.queue.count())

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/track-order?order_id=" + orderID + "&email=BUYER@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderStatusPaid, resp.Data["status"])
	assert.NotContains(t, resp.Data, "payment_id")

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/track-order?order_id=" + orderID + "&email=someone@else.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/admin/orders/unviewed/count", Token: admin})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, resp.Data["count"])

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/admin/orders/" + orderID + "/viewed", Token: admin})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/admin/orders/unviewed/count", Token: admin})
	assert.EqualValues(t, 0, resp.Data["count"])

	resp = s.do(t, testRequest{Method: http.MethodPut, Path: "/api/admin/orders/" + orderID + "/status?status=shipped&tracking_number=1Z999", Token: admin})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderStatusShipped, resp.Data["status"])
	assert.Equal(t, "DHL", resp.Data["shipping_carrier"])
	assert.Equal(t, 3, s.queue.count())

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/orders/" + orderID + "/invoice?email=buyer@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Raw.Header().Get("Content-Type"))
	assert.True(t, len(resp.Raw.Body.Bytes()) > 4)
	assert.Equal(t, "%PDF", string(resp.Raw.Body.Bytes()[:4]))

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/admin/orders/export", Token: admin})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Raw.Header().Get("Content-Disposition"), ".xlsx")
}

func TestOrderStatusRejectsUnknownStatus(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	resp := s.do(t, testRequest{Method: http.MethodPut, Path: "/api/admin/orders/nope/status?status=lost", Token: admin})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(t, testRequest{Method: http.MethodPut, Path: "/api/admin/orders/nope/status", Token: admin, Body: map[string]string{"status": "delivered"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Order not found", resp.Message)
}

func TestCreateOrderValidation(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/shop/create-order", Body: map[string]interface{}{
		"items":          []interface{}{},
		"total":          10,
		"customer_email": "buyer@example.com",
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, utils.KindInvalidInput, resp.Data["kind"])

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/shop/create-order"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCustomerAccountRoutes(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/auth/me"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/auth/register", Body: map[string]string{
		"email":      "Fan@Example.com",
		"password":   "mycelium-42",
		"first_name": "Ada",
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := resp.Data["access_token"].(string)
	require.NotEmpty(t, token)

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/auth/me", Token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fan@example.com", resp.Data["email"])
	assert.NotContains(t, resp.Data, "hashed_password")

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/auth/orders", Token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Data["orders"])

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/auth/login", Body: map[string]string{
		"email":    "fan@example.com",
		"password": "wrong-password",
	}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/auth/password-reset-request", Body: map[string]string{
		"email": "nobody@example.com",
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Message, "If your email is registered")
}

func TestBlogListFiltersByStatus(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	for _, status := range []string{models.BlogStatusPublished, models.BlogStatusDraft} {
		resp := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/admin/blogs", Token: admin, Body: map[string]string{
			"title":   "Reishi " + status,
			"content": "Body",
			"status":  status,
		}})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/blogs"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Data["blogs"], 1)

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/blogs?status=all"})
	assert.Len(t, resp.Data["blogs"], 2)

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/blogs?status=draft"})
	assert.Len(t, resp.Data["blogs"], 1)

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/admin/blogs/generate", Token: admin, Body: map[string]string{"keywords": "chaga"}})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	resp := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/landing-settings"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resp.Data["show_shop"])

	resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/admin/blog-features", Token: admin, Body: map[string]bool{
		"enable_video": false,
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/blog-features"})
	assert.Equal(t, false, resp.Data["enable_video"])
	assert.Equal(t, true, resp.Data["enable_audio"])

	resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/products"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Data["products"], 7)

	profiles, err := s.store.Settings.ListColorProfiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestExecutePaymentQueryNames(t *testing.T) {
	for name, query := range map[string]string{
		"canonical":  "payment_id=PAY-ROUTE-1&payer_id=PAYER-9",
		"orders api": "token=PAY-ROUTE-1&PayerID=PAYER-9",
		"legacy":     "paymentId=PAY-ROUTE-1&PayerID=PAYER-9",
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t)

			resp := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/shop/create-order", Body: map[string]interface{}{
				"items": []map[string]interface{}{
					{"product_id": "phys-3", "name": "Grow Kit", "price": 49.99, "quantity": 1},
				},
				"total":          49.99,
				"customer_email": "buyer@example.com",
			}})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			orderID, _ := resp.Data["order_id"].(string)
			require.NotEmpty(t, orderID)

			resp = s.do(t, testRequest{Method: http.MethodPost, Path: "/api/shop/execute-payment?" + query})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, 2, s.queue.count())

			resp = s.do(t, testRequest{Method: http.MethodGet, Path: "/api/admin/orders/" + orderID, Token: s.adminToken(t)})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, models.OrderStatusPaid, resp.Data["status"])
			assert.Equal(t, "PAYER-9", resp.Data["payer_id"])
		})
	}
}

func TestExecutePaymentRequiresIdentifiers(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/shop/execute-payment?payment_id=PAY-ROUTE-1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "payment_id and payer_id are required", resp.Message)
	assert.Zero(t, s.queue.count())
}
