package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *StripeGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripeGateway("sk_test_123", "whsec_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestStripeGatewayCreateCheckoutSession(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "payment", r.PostForm.Get("mode"))
		require.Equal(t, "1699", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		require.Equal(t, "eur", r.PostForm.Get("line_items[0][price_data][currency]"))
		require.Equal(t, "Featured listing - 14 days", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		require.Equal(t, "L1", r.PostForm.Get("metadata[listingId]"))
		require.Equal(t, "featured14", r.PostForm.Get("metadata[plan]"))
		require.Equal(t, "https://imobil.test/ok", r.PostForm.Get("success_url"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/cs_test_1"}`))
	})

	session, err := gw.CreateCheckoutSession(context.Background(), CheckoutRequest{
		Name:       "Featured listing - 14 days",
		UnitAmount: 1699,
		Currency:   "eur",
		Metadata:   map[string]string{MetaListingID: "L1", MetaPlan: "featured14"},
		SuccessURL: "https://imobil.test/ok",
		CancelURL:  "https://imobil.test/cancel",
	})
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", session.ID)
	require.Equal(t, "https://checkout.stripe.com/c/cs_test_1", session.URL)
}

func TestStripeGatewayGetCheckoutSession(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions/cs_test_2", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cs_test_2", "object": "checkout.session",
			"payment_status": "paid", "payment_intent": "pi_9",
			"amount_total": 999, "currency": "eur", "created": 1780000000,
			"customer_details": {"email": "a@b.test"},
			"metadata": {"listingId": "L2", "plan": "featured7"}
		}`))
	})

	s, err := gw.GetCheckoutSession(context.Background(), "cs_test_2")
	require.NoError(t, err)
	require.Equal(t, StatusPaid, s.PaymentStatus)
	require.Equal(t, "pi_9", s.PaymentIntentID)
	require.Equal(t, int64(999), s.AmountTotal)
	require.Equal(t, "a@b.test", s.CustomerEmail)
	require.Equal(t, "featured7", s.Metadata[MetaPlan])
	require.Equal(t, time.Unix(1780000000, 0).UTC(), s.CreatedAt)
}

func TestStripeGatewayGatewayError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session"}}`))
	})
	_, err := gw.GetCheckoutSession(context.Background(), "cs_missing")
	require.Error(t, err)
}

func TestStripeGatewayParseWebhook(t *testing.T) {
	gw := NewStripeGateway("sk_test_123", "whsec_123", nil)
	body, err := json.Marshal(map[string]any{
		"id": "evt_1", "object": "event", "type": EventCheckoutAsyncPaymentSucceeded,
		"data": map[string]any{"object": map[string]any{
			"id": "cs_1", "object": "checkout.session", "payment_status": "paid",
			"metadata": map[string]string{"listingId": "L3", "type": "full"},
		}},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: "whsec_123"})
	event, err := gw.ParseWebhook(body, signed.Header)
	require.NoError(t, err)
	require.Equal(t, "evt_1", event.ID)
	require.NotNil(t, event.Session)
	require.Equal(t, "L3", event.Session.Metadata[MetaListingID])

	stale := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: body, Secret: "whsec_123", Timestamp: time.Now().Add(-time.Hour),
	})
	_, err = gw.ParseWebhook(body, stale.Header)
	require.Error(t, err)
}
