package auth

import (
	"context"
	"time"

	accountRepo "imobil/database/repository/account"
	"imobil/models"
	"imobil/services/otp"
	"imobil/services/ratelimit"
	"imobil/services/sms"
	"imobil/utils"

	"go.uber.org/zap"
)

// CodeTTL is how long an issued code stays valid.
const CodeTTL = 5 * time.Minute

type AuthService interface {
	// Phone login
	RequestCode(ctx context.Context, phone, clientIP string) (*CodeIssued, error)
	VerifyCode(ctx context.Context, phone, code string) (*AuthResponse, error)
	CompleteProfile(ctx context.Context, phone, name, email string) (*models.AccountView, error)

	// Email accounts
	Register(ctx context.Context, in RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)

	GetAccount(ctx context.Context, accountID string) (*models.AccountView, error)
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Accounts accountRepo.AccountRepository
	Codes    otp.Store
	SMS      sms.CodeSender
	Limiter  ratelimit.Limiter
	Tokens   *utils.TokenIssuer
	Logger   *zap.Logger

	CountryCode string
	// MaxAttempts evicts a code after this many mismatches; zero disables the lockout.
	MaxAttempts int
	Now         func() time.Time
}

// CodeIssued is returned when a code was sent.
type CodeIssued struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthResponse carries the session credential and the account it is bound to.
type AuthResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	IsNew     bool               `json:"isNew"`
	Account   models.AccountView `json:"account"`
}

// RegisterInput is an explicit email registration.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

func (s *DefaultAuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
