package auth

import (
	"context"
	"errors"
	"strings"

	accountRepo "imobil/database/repository/account"
	"imobil/models"
	"imobil/services/sms"
	"imobil/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RequestCode sends a new code to phone, replacing any pending one. Requests
// are throttled per client IP.
func (s *DefaultAuthService) RequestCode(ctx context.Context, phone, clientIP string) (*CodeIssued, error) {
	normalized := NormalizePhone(phone, s.CountryCode)
	if !ValidPhone(normalized) {
		return nil, ErrInvalidPhone
	}

	allowed, err := s.Limiter.Allow(ctx, clientIP)
	if err != nil {
		s.Logger.Error("rate limiter unavailable", zap.String("ip", clientIP), zap.Error(err))
		return nil, ErrStoreUnavailable.AsRetryable().Wrap(err)
	}
	if !allowed {
		s.Logger.Warn("otp request rate limited", zap.String("ip", clientIP))
		return nil, ErrRateLimited
	}

	code, err := s.SMS.SendCode(ctx, normalized)
	if err != nil {
		// Nothing is stored when the provider did not accept the message.
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, sms.ErrSendFailed.Wrap(err)
	}

	entry, err := s.Codes.Put(ctx, normalized, code, CodeTTL)
	if err != nil {
		s.Logger.Error("failed to store otp", zap.String("phone", normalized), zap.Error(err))
		return nil, ErrStoreUnavailable.AsRetryable().Wrap(err)
	}

	s.Logger.Info("otp issued", zap.String("phone", normalized), zap.Time("expiresAt", entry.ExpiresAt))
	return &CodeIssued{Phone: normalized, ExpiresAt: entry.ExpiresAt}, nil
}

// VerifyCode consumes the pending code for phone and returns a session for the
// matching account, creating the account on first login.
func (s *DefaultAuthService) VerifyCode(ctx context.Context, phone, code string) (*AuthResponse, error) {
	normalized := NormalizePhone(phone, s.CountryCode)
	if !ValidPhone(normalized) {
		return nil, ErrInvalidPhone
	}
	code = strings.TrimSpace(code)
	if !validCode(code) {
		return nil, ErrInvalidCode
	}

	entry, err := s.Codes.Get(ctx, normalized)
	if err != nil {
		return nil, ErrStoreUnavailable.AsRetryable().Wrap(err)
	}
	if entry == nil {
		return nil, ErrCodeNotFound
	}
	if entry.Expired(s.now()) {
		if _, err := s.Codes.Delete(ctx, normalized); err != nil {
			s.Logger.Warn("failed to evict expired otp", zap.String("phone", normalized), zap.Error(err))
		}
		return nil, ErrCodeExpired
	}

	if entry.Code != code {
		return nil, s.recordMismatch(ctx, normalized)
	}

	removed, err := s.Codes.Delete(ctx, normalized)
	if err != nil {
		return nil, ErrStoreUnavailable.AsRetryable().Wrap(err)
	}
	if !removed {
		// A concurrent verification consumed the code first.
		return nil, ErrCodeNotFound
	}

	account, isNew, err := s.resolvePhoneAccount(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return s.issueSession(account, isNew)
}

func (s *DefaultAuthService) recordMismatch(ctx context.Context, phone string) error {
	if s.MaxAttempts <= 0 {
		return ErrCodeMismatch
	}
	attempts, err := s.Codes.RecordFailure(ctx, phone)
	if err != nil {
		s.Logger.Warn("failed to count otp attempt", zap.String("phone", phone), zap.Error(err))
		return ErrCodeMismatch
	}
	if attempts >= int64(s.MaxAttempts) {
		if _, err := s.Codes.Delete(ctx, phone); err != nil {
			s.Logger.Warn("failed to evict locked otp", zap.String("phone", phone), zap.Error(err))
		}
		s.Logger.Warn("otp locked after repeated mismatches", zap.String("phone", phone), zap.Int64("attempts", attempts))
		return ErrTooManyAttempts
	}
	return ErrCodeMismatch
}

// resolvePhoneAccount finds the account owning phone, falling back to the
// placeholder email, and creates one when neither exists.
func (s *DefaultAuthService) resolvePhoneAccount(ctx context.Context, phone string) (*models.Account, bool, error) {
	account, err := s.Accounts.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, ErrStoreUnavailable.Wrap(err)
	}
	if account != nil {
		return account, false, nil
	}

	account, err = s.Accounts.GetByEmail(ctx, PlaceholderEmail(phone))
	if err != nil {
		return nil, false, ErrStoreUnavailable.Wrap(err)
	}
	if account != nil {
		if account.Phone == "" {
			if err := s.Accounts.SetPhone(ctx, account.ID, phone); err != nil {
				return nil, false, ErrStoreUnavailable.Wrap(err)
			}
			account.Phone = phone
			account.Verified = true
		}
		return account, false, nil
	}

	// The password is random and never disclosed, so the account can only be
	// reached through phone login until the owner sets one.
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, utils.ErrInternal.Wrap(err)
	}
	account = &models.Account{
		Name:         "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		Email:        PlaceholderEmail(phone),
		PasswordHash: string(hash),
		Phone:        phone,
		Verified:     true,
	}
	if err := s.Accounts.Create(ctx, account); err != nil {
		if errors.Is(err, accountRepo.ErrDuplicate) {
			// Lost a race with another first login for the same phone.
			existing, lookupErr := s.Accounts.GetByPhone(ctx, phone)
			if lookupErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		s.Logger.Error("failed to create phone account", zap.String("phone", phone), zap.Error(err))
		return nil, false, ErrStoreUnavailable.Wrap(err)
	}
	s.Logger.Info("created account from phone login", zap.String("accountID", account.ID.Hex()))
	return account, true, nil
}

func (s *DefaultAuthService) issueSession(account *models.Account, isNew bool) (*AuthResponse, error) {
	token, err := s.Tokens.GenerateToken(account.ID.Hex(), account.Phone, account.Email, utils.SessionTTL)
	if err != nil {
		s.Logger.Error("failed to generate auth token", zap.Error(err))
		return nil, utils.ErrInternal.Wrap(err)
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: s.now().Add(utils.SessionTTL),
		IsNew:     isNew,
		Account:   account.View(),
	}, nil
}

// CompleteProfile sets the display name and email of the account owning phone.
func (s *DefaultAuthService) CompleteProfile(ctx context.Context, phone, name, email string) (*models.AccountView, error) {
	normalized := NormalizePhone(phone, s.CountryCode)
	if !ValidPhone(normalized) {
		return nil, ErrInvalidPhone
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || !validEmail(email) {
		return nil, ErrInvalidInput
	}

	account, err := s.Accounts.GetByPhone(ctx, normalized)
	if err != nil {
		return nil, ErrStoreUnavailable.Wrap(err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if err := s.Accounts.UpdateProfile(ctx, account.ID, name, email); err != nil {
		switch {
		case errors.Is(err, accountRepo.ErrDuplicate):
			return nil, ErrAccountExists
		case errors.Is(err, accountRepo.ErrNotFound):
			return nil, ErrAccountNotFound
		}
		return nil, ErrStoreUnavailable.Wrap(err)
	}
	account.Name = name
	account.Email = email
	view := account.View()
	return &view, nil
}
