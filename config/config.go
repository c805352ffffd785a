package config

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevJWTSecret is the signing secret used when JWT_SECRET is unset outside production.
const DevJWTSecret = "imobil-dev-secret"

// DefaultSMSAPIURL is the SMS provider endpoint used when SMS_API_URL is unset.
const DefaultSMSAPIURL = "https://secure.smslink.ro/sms/gateway/communicate/index.php"

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Session credentials.
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Phone login.
	SMSConnectionID   string `mapstructure:"SMS_CONNECTION_ID"`
	SMSPassword       string `mapstructure:"SMS_PASSWORD"`
	SMSSender         string `mapstructure:"SMS_SENDER"`
	SMSAPIURL         string `mapstructure:"SMS_API_URL"`
	PhoneCountryCode  string `mapstructure:"PHONE_COUNTRY_CODE"`
	OTPRequestsPerMin int    `mapstructure:"OTP_REQUESTS_PER_MIN"`
	OTPMaxAttempts    int    `mapstructure:"OTP_MAX_ATTEMPTS"`

	// Stripe.
	StripeSecretKey     string  `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string  `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PaymentCurrency     string  `mapstructure:"PAYMENT_CURRENCY"`
	ReservationPercent  float64 `mapstructure:"RESERVATION_PERCENT"`

	// Front-end base URL for checkout redirects.
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Comma separated proxy IPs or CIDRs whose forwarding headers are honored.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env populates the process environment before viper reads it.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := AppConfig.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "imobil")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_OTP_DB", 2)
	v.SetDefault("REDIS_QUEUE_DB", 3)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SMS_CONNECTION_ID", "")
	v.SetDefault("SMS_PASSWORD", "")
	v.SetDefault("SMS_SENDER", "")
	v.SetDefault("SMS_API_URL", DefaultSMSAPIURL)
	v.SetDefault("PHONE_COUNTRY_CODE", "40")
	v.SetDefault("OTP_REQUESTS_PER_MIN", 3)
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("PAYMENT_CURRENCY", "eur")
	v.SetDefault("RESERVATION_PERCENT", 10.0)
	v.SetDefault("FRONTEND_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
}

var currencyCode = regexp.MustCompile(`^[a-z]{3}$`)

// Validate checks the settings that must be present at startup. SMS and Stripe
// credentials are optional: their absence disables the corresponding feature.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FrontendURL) == "" {
		return errors.New("FRONTEND_URL is required")
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWTSecret = DevJWTSecret
	}
	if c.ReservationPercent <= 0 || c.ReservationPercent > 100 {
		return errors.New("RESERVATION_PERCENT must be in (0, 100]")
	}
	if c.OTPRequestsPerMin <= 0 {
		return errors.New("OTP_REQUESTS_PER_MIN must be positive")
	}
	c.PaymentCurrency = strings.ToLower(strings.TrimSpace(c.PaymentCurrency))
	if c.PaymentCurrency == "" {
		c.PaymentCurrency = "eur"
	}
	if !currencyCode.MatchString(c.PaymentCurrency) {
		return fmt.Errorf("PAYMENT_CURRENCY %q is not an ISO 4217 code", c.PaymentCurrency)
	}
	return nil
}

// SMSConfigured reports whether SMS provider credentials are present.
func (c Config) SMSConfigured() bool {
	return c.SMSConnectionID != "" && c.SMSPassword != ""
}

// StripeConfigured reports whether the payment gateway can be used.
func (c Config) StripeConfigured() bool {
	return c.StripeSecretKey != ""
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	out := splitList(c.CORSAllowedOrigins)
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// TrustedProxyList splits TRUSTED_PROXIES on commas. Nil trusts no proxy, so
// the client IP is always the TCP peer.
func (c Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func IsProduction() bool {
	return AppConfig.IsProduction()
}
