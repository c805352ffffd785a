package sms

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"imobil/utils"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = utils.NewError(utils.KindNotConfigured, "sms_not_configured", "Phone login is not available")
	ErrSendFailed    = utils.NewError(utils.KindUpstream, "sms_send_failed", "Could not send the verification code")
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 5 * time.Second

// CodeSender delivers a freshly generated one-time code to a phone number and
// returns the code that was sent. Implementations must not retry on their own.
type CodeSender interface {
	SendCode(ctx context.Context, phone string) (string, error)
}

// Config holds the provider credentials.
type Config struct {
	ConnectionID string
	Password     string
	Sender       string
	APIURL       string
}

// Client sends verification codes through the SMS provider's form API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
	production bool
	generate   func() (string, error)
}

func NewClient(cfg Config, logger *zap.Logger, production bool) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
		production: production,
		generate:   GenerateCode,
	}
}

// WithHTTPClient replaces the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) configured() bool {
	return c.cfg.ConnectionID != "" && c.cfg.Password != "" && c.cfg.APIURL != ""
}

// GenerateCode returns a uniformly random 6-digit code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func composeMessage(code string) string {
	return fmt.Sprintf("Your imobil verification code is %s. It expires in 5 minutes.", code)
}

// SendCode generates a code and posts it to the provider exactly once.
func (c *Client) SendCode(ctx context.Context, phone string) (string, error) {
	if !c.configured() {
		return "", ErrNotConfigured
	}
	code, err := c.generate()
	if err != nil {
		return "", ErrSendFailed.Wrap(err)
	}

	form := url.Values{}
	form.Set("connection_id", c.cfg.ConnectionID)
	form.Set("password", c.cfg.Password)
	form.Set("to", phone)
	form.Set("message", composeMessage(code))
	if c.cfg.Sender != "" {
		form.Set("sender", c.cfg.Sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", ErrSendFailed.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("SMS provider request failed", zap.String("phone", phone), zap.Error(err))
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", ErrSendFailed.AsRetryable().Wrap(err)
		}
		return "", ErrSendFailed.Wrap(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.logger.Info("SMS provider response",
		zap.String("phone", phone),
		zap.Int("status", resp.StatusCode),
		zap.String("body", string(body)),
	)
	if !c.production {
		c.logger.Debug("issued verification code", zap.String("phone", phone), zap.String("code", code))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ErrSendFailed.Wrap(fmt.Errorf("provider returned status %d", resp.StatusCode))
	}
	return code, nil
}
