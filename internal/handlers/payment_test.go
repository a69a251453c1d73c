package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kapilraj/pos-backend/internal/khalti"
	"github.com/kapilraj/pos-backend/internal/models"
	"github.com/kapilraj/pos-backend/internal/transport"
)

func TestInitiatePayment(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem("item-tea", "Tea", 50, 10)

	var gotAmount float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotAmount, _ = body["amount"].(float64)
		json.NewEncoder(w).Encode(map[string]any{
			"pidx":        "pidx42",
			"payment_url": "https://pay.test/pidx42",
		})
	}))
	defer srv.Close()

	h := &PaymentHandler{
		Orders:  env.Orders.Orders,
		Gateway: khalti.NewClient(srv.URL, "test-secret"),
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/payments/initiate", transport.InitiatePaymentRequest{
		Order: transport.OrderRequest{
			CustomerName: "Ram",
			CartItems: []transport.OrderItemRequest{
				{Name: "Tea", ItemID: "item-tea", Quantity: 2, Price: 50},
			},
		},
		ReturnURL:  "https://shop.test/return",
		WebsiteURL: "https://shop.test",
	})
	require.NoError(t, h.InitiatePayment(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// 100 rupees in paisa
	require.Equal(t, 10000.0, gotAmount)

	var resp struct {
		Order  models.Order   `json:"order"`
		Khalti map[string]any `json:"khalti"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "KHALTI", resp.Order.PaymentMethod)
	require.Equal(t, "PENDING", resp.Order.PaymentStatus)
	require.Equal(t, "pidx42", resp.Khalti["pidx"])
}

func TestInitiatePaymentGatewayFailureKeepsOrder(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem("item-tea", "Tea", 50, 10)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"gateway down"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := &PaymentHandler{
		Orders:  env.Orders.Orders,
		Gateway: khalti.NewClient(srv.URL, "test-secret"),
	}

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/payments/initiate", transport.InitiatePaymentRequest{
		Order: transport.OrderRequest{
			CartItems: []transport.OrderItemRequest{
				{Name: "Tea", ItemID: "item-tea", Quantity: 1, Price: 50},
			},
		},
	})
	requireHTTPError(t, h.InitiatePayment(c), http.StatusBadGateway)

	// the order survives so the payment leg can be retried
	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLookupPayment(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "Completed", "pidx": "pidx42"})
	}))
	defer srv.Close()

	h := &PaymentHandler{Gateway: khalti.NewClient(srv.URL, "test-secret")}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/payments/lookup", transport.LookupPaymentRequest{Pidx: "pidx42"})
	require.NoError(t, h.LookupPayment(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Completed", resp["status"])
}

func TestLookupPaymentRequiresPidx(t *testing.T) {
	env := newTestEnv(t)
	h := &PaymentHandler{Gateway: khalti.NewClient("http://unused", "s")}

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/payments/lookup", transport.LookupPaymentRequest{})
	requireHTTPError(t, h.LookupPayment(c), http.StatusBadRequest)
}
