package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// SessionTTL is the lifetime of a session credential.
const SessionTTL = 7 * 24 * time.Hour

// SessionClaims is the identity carried by a session credential.
type SessionClaims struct {
	AccountID string
	Phone     string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and validates HS256 session credentials.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	c := *t
	c.now = now
	return &c
}

// GenerateToken creates a signed JWT token for the account, valid for duration.
// Either phone or email may be empty.
func (t *TokenIssuer) GenerateToken(accountID, phone, email string, duration time.Duration) (string, error) {
	issued := t.now()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": issued.Unix(),
		"exp": issued.Add(duration).Unix(),
	}
	if phone != "" {
		claims["phone"] = phone
	}
	if email != "" {
		claims["email"] = email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken parses and validates a token string and returns its claims.
func (t *TokenIssuer) ValidateToken(tokenString string) (*SessionClaims, error) {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	// Expiry is checked against the issuer clock rather than jwt's wall clock.
	if !claims.VerifyExpiresAt(t.now().Unix(), true) {
		return nil, errors.New("token is expired")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}

	out := &SessionClaims{AccountID: sub}
	out.Phone, _ = claims["phone"].(string)
	out.Email, _ = claims["email"].(string)
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
