package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"imobil/middleware"
	"imobil/models"
	"imobil/services/auth"
	"imobil/services/payment"
	"imobil/services/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	auth.AuthService
	gotPhone, gotIP string
	err             error
	limiter         ratelimit.Limiter
	sent            int
}

func (s *stubAuth) RequestCode(ctx context.Context, phone, ip string) (*auth.CodeIssued, error) {
	s.gotPhone, s.gotIP = phone, ip
	if s.err != nil {
		return nil, s.err
	}
	if s.limiter != nil {
		if ok, _ := s.limiter.Allow(ctx, ip); !ok {
			return nil, auth.ErrRateLimited
		}
	}
	s.sent++
	return &auth.CodeIssued{Phone: "40712345678"}, nil
}

func (s *stubAuth) CompleteProfile(_ context.Context, phone, name, email string) (*models.AccountView, error) {
	s.gotPhone = phone
	return &models.AccountView{ID: "a1", Name: name, Email: email, Phone: phone}, nil
}

type stubPayments struct {
	payment.PaymentService
	body      []byte
	signature string
	err       error
	requester string
	sessionID string
	confirms  int
}

func (s *stubPayments) ConfirmByPolling(_ context.Context, sessionID string) (*payment.Confirmation, error) {
	s.sessionID = sessionID
	s.confirms++
	if sessionID == "" {
		return nil, payment.ErrInvalidSession
	}
	return &payment.Confirmation{ListingID: "l1", Plan: "featured7"}, nil
}

func (s *stubPayments) ConfirmByWebhook(_ context.Context, body []byte, sig string) (*payment.WebhookResult, error) {
	s.body, s.signature = body, sig
	if s.err != nil {
		return nil, s.err
	}
	return &payment.WebhookResult{Applied: true}, nil
}

func (s *stubPayments) CreateCheckout(_ context.Context, requester, ref, plan string) (*models.CheckoutSession, error) {
	s.requester = requester
	if s.err != nil {
		return nil, s.err
	}
	return &models.CheckoutSession{ID: "cs_1", URL: "https://pay.test/cs_1"}, nil
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendOTPPassesClientIP(t *testing.T) {
	svc := &stubAuth{}
	r := gin.New()
	// httptest requests arrive from 192.0.2.1.
	require.NoError(t, middleware.TrustProxies(r, []string{"192.0.2.1"}))
	r.POST("/send-otp", NewAuthHandler(svc).SendOTPHandler)

	w := do(r, http.MethodPost, "/send-otp", `{"phone":"0712 345 678"}`, map[string]string{"X-Forwarded-For": "203.0.113.5"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "0712 345 678", svc.gotPhone)
	require.Equal(t, "203.0.113.5", svc.gotIP)

	svc.err = auth.ErrRateLimited
	w = do(r, http.MethodPost, "/send-otp", `{"phone":"0712345678"}`, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), `"code":"rate_limited"`)

	w = do(r, http.MethodPost, "/send-otp", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendOTPLimitIgnoresForgedForwardedFor(t *testing.T) {
	svc := &stubAuth{limiter: ratelimit.NewMemoryLimiter(3, time.Minute)}
	r := gin.New()
	require.NoError(t, middleware.TrustProxies(r, nil))
	r.POST("/send-otp", NewAuthHandler(svc).SendOTPHandler)

	limited := 0
	for i := 0; i < 20; i++ {
		xff := map[string]string{"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i+1)}
		w := do(r, http.MethodPost, "/send-otp", `{"phone":"0712345678"}`, xff)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
		require.Equal(t, "192.0.2.1", svc.gotIP)
	}
	require.Equal(t, 3, svc.sent)
	require.Equal(t, 17, limited)
}

func TestCompleteProfileUsesSessionPhone(t *testing.T) {
	svc := &stubAuth{}
	r := gin.New()
	r.POST("/complete-profile", func(c *gin.Context) {
		c.Set(middleware.CtxPhone, "40712345678")
		c.Next()
	}, NewAuthHandler(svc).CompleteProfileHandler)

	w := do(r, http.MethodPost, "/complete-profile", `{"name":"Ana","email":"ana@example.com","phone":"40799999999"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "40712345678", svc.gotPhone)
}

func TestWebhookReceivesRawBody(t *testing.T) {
	svc := &stubPayments{}
	r := gin.New()
	r.POST("/webhook", NewPaymentHandler(svc).WebhookHandler)

	raw := "{\"id\": \"evt_1\",\n  \"type\":\"checkout.session.completed\"}"
	w := do(r, http.MethodPost, "/webhook", raw, map[string]string{SignatureHeader: "t=1,v1=abc"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, raw, string(svc.body))
	require.Equal(t, "t=1,v1=abc", svc.signature)
	require.JSONEq(t, `{"received":true,"applied":true}`, w.Body.String())
}

func TestWebhookBadSignatureIsClientError(t *testing.T) {
	svc := &stubPayments{err: payment.ErrBadSignature}
	r := gin.New()
	r.POST("/webhook", NewPaymentHandler(svc).WebhookHandler)

	w := do(r, http.MethodPost, "/webhook", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body, _ := io.ReadAll(w.Body)
	require.Contains(t, string(body), "invalid_signature")
}

func TestCheckoutHandler(t *testing.T) {
	svc := &stubPayments{}
	r := gin.New()
	r.POST("/checkout", func(c *gin.Context) {
		c.Set(middleware.CtxAccountID, "acc-9")
		c.Next()
	}, NewPaymentHandler(svc).CheckoutHandler)

	w := do(r, http.MethodPost, "/checkout", `{"listingId":"x-1","plan":"featured14"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "acc-9", svc.requester)
	require.JSONEq(t, `{"sessionId":"cs_1","url":"https://pay.test/cs_1"}`, w.Body.String())

	svc.err = payment.ErrAlreadyPaid
	w = do(r, http.MethodPost, "/checkout", `{"listingId":"x-1"}`, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	svc.err = payment.ErrNotConfigured
	w = do(r, http.MethodPost, "/checkout", `{"listingId":"x-1"}`, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthHandlerWithoutStores(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthHandler(nil, nil))
	w := do(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestConfirmPaymentSessionSources(t *testing.T) {
	svc := &stubPayments{}
	r := gin.New()
	r.POST("/confirm", NewPaymentHandler(svc).ConfirmHandler)

	w := do(r, http.MethodPost, "/confirm", `{"sessionId":"cs_body"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "cs_body", svc.sessionID)

	w = do(r, http.MethodPost, "/confirm?session_id=cs_query", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "cs_query", svc.sessionID)

	w = do(r, http.MethodPost, "/confirm?session_id=cs_query", `{"sessionId":`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"code":"invalid_session_id"`)
	require.Equal(t, 2, svc.confirms)

	w = do(r, http.MethodPost, "/confirm", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
