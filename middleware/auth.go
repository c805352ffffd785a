package middleware

import (
	"strings"

	"imobil/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuth.
const (
	CtxAccountID = "accountID"
	CtxPhone     = "phone"
	CtxEmail     = "email"
)

var (
	errMissingToken = utils.NewError(utils.KindUnauthorized, "missing_token", "Missing or invalid Authorization header")
	errInvalidToken = utils.NewError(utils.KindUnauthorized, "invalid_token", "Invalid or expired token")
)

// JWTAuth requires a valid bearer session token and stores its claims in the
// request context.
func JWTAuth(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, errMissingToken)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			zap.L().Debug("token rejected", zap.Error(err))
			utils.RespondError(c, errInvalidToken)
			return
		}

		c.Set(CtxAccountID, claims.AccountID)
		c.Set(CtxPhone, claims.Phone)
		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}
