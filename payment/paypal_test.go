package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moneyJSON struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type itemJSON struct {
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Quantity   string    `json:"quantity"`
	UnitAmount moneyJSON `json:"unit_amount"`
}

type orderRequestJSON struct {
	Intent        string `json:"intent"`
	PurchaseUnits []struct {
		Description string `json:"description"`
		Amount      struct {
			Currency  string `json:"currency_code"`
			Value     string `json:"value"`
			Breakdown struct {
				ItemTotal moneyJSON `json:"item_total"`
			} `json:"breakdown"`
		} `json:"amount"`
		Items []itemJSON `json:"items"`
	} `json:"purchase_units"`
	ApplicationContext struct {
		BrandName string `json:"brand_name"`
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"application_context"`
}

// fakePayPal serves the token, order and capture endpoints of the orders API.
type fakePayPal struct {
	server       *httptest.Server
	created      orderRequestJSON
	createStatus int
	createBody   string
	captured     string
}

func newFakePayPal(t *testing.T) *fakePayPal {
	t.Helper()
	f := &fakePayPal{
		createStatus: http.StatusCreated,
		createBody: `{"id":"ORDER-1","status":"CREATED","links":[
			{"href":"https://api.paypal.test/v2/checkout/orders/ORDER-1","rel":"self","method":"GET"},
			{"href":"https://www.paypal.test/checkoutnow?token=ORDER-1","rel":"approve","method":"GET"}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":32400}`))
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.created))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.createStatus)
		w.Write([]byte(f.createBody))
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		f.captured = strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v2/checkout/orders/"), "/capture")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ORDER-1","status":"COMPLETED","payer":{"payer_id":"PAYER-7"}}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakePayPal) gateway(t *testing.T) *PayPal {
	t.Helper()
	gw, err := newPayPal("client-id", "client-secret", f.server.URL, "ApeBrain.cloud")
	require.NoError(t, err)
	return gw
}

func sessionRequest() SessionRequest {
	return SessionRequest{
		Items: []LineItem{
			{Name: "Lion's Mane Extract", SKU: "phys-1", UnitPrice: 31.049999, Quantity: 2},
			{Name: "Identification Guide", SKU: "digi-1", UnitPrice: 17.991, Quantity: 1},
		},
		Total:       80.09,
		Currency:    "USD",
		Description: "ApeBrain order",
		ReturnURL:   "https://apebrain.cloud/payment/success",
		CancelURL:   "https://apebrain.cloud/payment/cancel",
	}
}

func TestPayPalCreateSession(t *testing.T) {
	f := newFakePayPal(t)

	session, err := f.gateway(t).CreateSession(context.Background(), sessionRequest())
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", session.ID)
	assert.Equal(t, "https://www.paypal.test/checkoutnow?token=ORDER-1", session.ApprovalURL)

	assert.Equal(t, "CAPTURE", f.created.Intent)
	require.Len(t, f.created.PurchaseUnits, 1)
	unit := f.created.PurchaseUnits[0]
	assert.Equal(t, "USD", unit.Amount.Currency)
	assert.Equal(t, "80.09", unit.Amount.Value)
	assert.Equal(t, moneyJSON{Currency: "USD", Value: "80.09"}, unit.Amount.Breakdown.ItemTotal)
	assert.Equal(t, []itemJSON{
		{Name: "Lion's Mane Extract", SKU: "phys-1", Quantity: "2", UnitAmount: moneyJSON{Currency: "USD", Value: "31.05"}},
		{Name: "Identification Guide", SKU: "digi-1", Quantity: "1", UnitAmount: moneyJSON{Currency: "USD", Value: "17.99"}},
	}, unit.Items)
	assert.Equal(t, "ApeBrain.cloud", f.created.ApplicationContext.BrandName)
	assert.Equal(t, "https://apebrain.cloud/payment/success", f.created.ApplicationContext.ReturnURL)
}

func TestPayPalCreateSessionRejected(t *testing.T) {
	f := newFakePayPal(t)
	f.createStatus = http.StatusUnprocessableEntity
	f.createBody = `{"name":"UNPROCESSABLE_ENTITY","message":"The requested action could not be performed.",
		"debug_id":"dbg-42","details":[{"issue":"ITEM_TOTAL_MISMATCH","description":"Should equal item total."}]}`

	_, err := f.gateway(t).CreateSession(context.Background(), sessionRequest())

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "create", gwErr.Operation)
	payload, ok := gwErr.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", payload["name"])
	assert.Equal(t, "dbg-42", payload["debug_id"])
}

func TestPayPalCreateSessionWithoutApproveLink(t *testing.T) {
	f := newFakePayPal(t)
	f.createBody = `{"id":"ORDER-2","status":"CREATED","links":[]}`

	_, err := f.gateway(t).CreateSession(context.Background(), sessionRequest())

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, map[string]string{"order_id": "ORDER-2", "status": "CREATED"}, gwErr.Payload)
}

func TestPayPalExecute(t *testing.T) {
	f := newFakePayPal(t)

	exec, err := f.gateway(t).Execute(context.Background(), "ORDER-1", "FROM-REDIRECT")
	require.NoError(t, err)

	assert.Equal(t, "ORDER-1", f.captured)
	assert.Equal(t, "ORDER-1", exec.PaymentID)
	assert.Equal(t, "PAYER-7", exec.PayerID)
	assert.Equal(t, "COMPLETED", exec.State)
}

func TestErrorPayloadForTransportError(t *testing.T) {
	payload := errorPayload(errors.New("dial tcp: connection refused"))

	assert.Equal(t, map[string]string{"message": "dial tcp: connection refused"}, payload)
}
