package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsSigningSecretOutsideProduction(t *testing.T) {
	cfg := Config{Env: "development", FrontendURL: "https://imobil.test", ReservationPercent: 10, OTPRequestsPerMin: 3}
	require.NoError(t, cfg.Validate())
	require.Equal(t, DevJWTSecret, cfg.JWTSecret)
}

func TestValidateRejectsMissingSecretInProduction(t *testing.T) {
	cfg := Config{Env: "production", FrontendURL: "https://imobil.test", ReservationPercent: 10, OTPRequestsPerMin: 3}
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresFrontendURL(t *testing.T) {
	cfg := Config{Env: "development", JWTSecret: "s", ReservationPercent: 10, OTPRequestsPerMin: 3}
	require.EqualError(t, cfg.Validate(), "FRONTEND_URL is required")
}

func TestFeatureFlagsFollowCredentials(t *testing.T) {
	cfg := Config{}
	require.False(t, cfg.SMSConfigured())
	require.False(t, cfg.StripeConfigured())

	cfg.SMSConnectionID, cfg.SMSPassword = "id", "pw"
	cfg.StripeSecretKey = "sk_test_123"
	require.True(t, cfg.SMSConfigured())
	require.True(t, cfg.StripeConfigured())
}

func TestAllowedOrigins(t *testing.T) {
	require.Equal(t, []string{"*"}, Config{}.AllowedOrigins())
	require.Equal(t,
		[]string{"https://a.test", "https://b.test"},
		Config{CORSAllowedOrigins: "https://a.test, https://b.test,"}.AllowedOrigins())
}

func TestTrustedProxyList(t *testing.T) {
	require.Nil(t, Config{}.TrustedProxyList())
	require.Equal(t,
		[]string{"10.0.0.0/8", "172.16.0.1"},
		Config{TrustedProxies: " 10.0.0.0/8,172.16.0.1 ,"}.TrustedProxyList())
}

func TestValidateNormalizesPaymentCurrency(t *testing.T) {
	cfg := Config{FrontendURL: "https://imobil.test", ReservationPercent: 10, OTPRequestsPerMin: 3, PaymentCurrency: " JPY "}
	require.NoError(t, cfg.Validate())
	require.Equal(t, "jpy", cfg.PaymentCurrency)

	cfg = Config{FrontendURL: "https://imobil.test", ReservationPercent: 10, OTPRequestsPerMin: 3}
	require.NoError(t, cfg.Validate())
	require.Equal(t, "eur", cfg.PaymentCurrency)

	for _, bad := range []string{"euro", "e1r", "$"} {
		cfg = Config{FrontendURL: "https://imobil.test", ReservationPercent: 10, OTPRequestsPerMin: 3, PaymentCurrency: bad}
		require.Error(t, cfg.Validate(), "currency %q", bad)
	}
}
