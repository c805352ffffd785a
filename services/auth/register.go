package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	accountRepo "imobil/database/repository/account"
	"imobil/models"
	"imobil/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// verifyPasswordComplexity checks that the password has 8 to 72 bytes with one
// lowercase letter, one uppercase letter and one digit.
func verifyPasswordComplexity(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(pw) > maxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes long", maxPasswordBytes)
	}
	if !hasUpper.MatchString(pw) {
		return fmt.Errorf("password must include at least one uppercase letter")
	}
	if !hasLower.MatchString(pw) {
		return fmt.Errorf("password must include at least one lowercase letter")
	}
	if !hasNumber.MatchString(pw) {
		return fmt.Errorf("password must include at least one number")
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Register creates an email account. A phone number, when given, is stored in
// normalized form and must not belong to another account.
func (s *DefaultAuthService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || !validEmail(email) {
		return nil, ErrInvalidInput
	}
	if err := verifyPasswordComplexity(in.Password); err != nil {
		return nil, &utils.AppError{Kind: utils.KindValidation, Code: "weak_password", Message: err.Error()}
	}

	var phone string
	if strings.TrimSpace(in.Phone) != "" {
		phone = NormalizePhone(in.Phone, s.CountryCode)
		if !ValidPhone(phone) {
			return nil, ErrInvalidPhone
		}
	}

	existing, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrStoreUnavailable.Wrap(err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}
	if phone != "" {
		existing, err = s.Accounts.GetByPhone(ctx, phone)
		if err != nil {
			return nil, ErrStoreUnavailable.Wrap(err)
		}
		if existing != nil {
			return nil, ErrAccountExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.Logger.Error("failed to hash password", zap.Error(err))
		return nil, utils.ErrInternal.Wrap(err)
	}

	account := &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
	}
	if err := s.Accounts.Create(ctx, account); err != nil {
		if errors.Is(err, accountRepo.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		s.Logger.Error("failed to create account", zap.Error(err))
		return nil, ErrStoreUnavailable.Wrap(err)
	}
	return s.issueSession(account, true)
}

// Login authenticates an email account by password.
func (s *DefaultAuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	account, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrStoreUnavailable.Wrap(err)
	}
	if account == nil {
		return nil, ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}
	return s.issueSession(account, false)
}

// GetAccount returns the account view for a session's account id.
func (s *DefaultAuthService) GetAccount(ctx context.Context, accountID string) (*models.AccountView, error) {
	id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	account, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, ErrStoreUnavailable.Wrap(err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	view := account.View()
	return &view, nil
}
