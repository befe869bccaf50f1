package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/apebrain/shop-api/config"
	"github.com/apebrain/shop-api/controllers"
	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/notify"
	"github.com/apebrain/shop-api/payment"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/repository/memory"
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
)

const (
	testSecret        = "router-test-secret"
	testAdminUser     = "operator"
	testAdminPassword = "correct-horse-battery"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type capturedQueue struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (q *capturedQueue) Dispatch(msg notify.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
}

func (q *capturedQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sent)
}

type stubGateway struct{}

func (stubGateway) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	return &payment.Session{ID: "PAY-ROUTE-1", ApprovalURL: "https://paypal.test/approve?token=PAY-ROUTE-1"}, nil
}

func (stubGateway) Execute(_ context.Context, paymentID, payerID string) (*payment.Execution, error) {
	return &payment.Execution{PaymentID: paymentID, PayerID: payerID, State: "COMPLETED"}, nil
}

type testServer struct {
	router *gin.Engine
	store  *repository.Store
	queue  *capturedQueue
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	queue := &capturedQueue{}
	mail := notify.NewComposer("ops@apebrain.cloud")
	now := func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }

	coupons := services.NewCouponService(store.Coupons, now)
	handler := &controllers.Handler{
		Orders: services.NewOrderService(store.Orders, coupons, stubGateway{}, queue, mail, services.OrderOptions{
			FrontendURL:    "https://apebrain.cloud",
			UnviewedStatus: models.OrderStatusPaid,
		}, now),
		Coupons: coupons,
		Auth: services.NewAuthService(store.Users, store.ResetTokens, queue, mail, services.AuthOptions{
			JWTSecret:     testSecret,
			AdminUsername: testAdminUser,
			AdminPassword: testAdminPassword,
			FrontendURL:   "https://apebrain.cloud",
		}, nil, now),
		Blogs:    services.NewBlogService(store.Blogs, nil, nil, now),
		Products: services.NewProductService(store.Products),
		Settings: services.NewSettingsService(store.Settings, store.Blogs, store.Products, now),
	}

	cfg := &config.Config{
		Env:           "test",
		CORSOrigins:   []string{"*"},
		JWTSecret:     testSecret,
		SessionSecret: "session-test-secret",
	}
	return &testServer{router: SetupRouter(cfg, handler), store: store, queue: queue}
}

// testRequest describes one call against the router
type testRequest struct {
	Method string
	Path   string
	Body   interface{}
	Token  string
}

// testResponse is the decoded StandardResponse envelope
type testResponse struct {
	StatusCode int
	Status     string
	Message    string
	Data       map[string]interface{}
	Raw        *httptest.ResponseRecorder
}

func (s *testServer) do(t *testing.T, req testRequest) testResponse {
	t.Helper()
	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		require.NoError(t, err)
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewBuffer(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httpReq)

	resp := testResponse{StatusCode: w.Code, Raw: w}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" && w.Body.Len() > 0 {
		var envelope struct {
			Status  string          `json:"status"`
			Message string          `json:"message"`
			Data    json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		resp.Status = envelope.Status
		resp.Message = envelope.Message
		if len(envelope.Data) > 0 && envelope.Data[0] == '{' {
			require.NoError(t, json.Unmarshal(envelope.Data, &resp.Data))
		}
	}
	return resp
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	resp := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/admin/login", Body: map[string]string{
		"username": testAdminUser,
		"password": testAdminPassword,
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := resp.Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}
