package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies failures into the categories clients can act on.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindRateLimited
	KindConflict
	KindUpstream
	KindSignatureInvalid
	KindNotConfigured
)

// AppError is an error with a stable code and message safe to show to clients.
// Err holds the internal cause and is never serialized.
type AppError struct {
	Kind      ErrorKind
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func NewError(kind ErrorKind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError carrying the same code, so wrapped copies of a
// sentinel still satisfy errors.Is(err, sentinel).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e with cause attached.
func (e *AppError) Wrap(cause error) *AppError {
	c := *e
	c.Err = cause
	return &c
}

// AsRetryable returns a copy of e flagged as safe for the client to retry.
func (e *AppError) AsRetryable() *AppError {
	c := *e
	c.Retryable = true
	return &c
}

// HTTPStatus maps an error kind to its response status.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation, KindSignatureInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	case KindNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// ErrInternal is the response used for errors that carry no client-safe detail.
var ErrInternal = NewError(KindInternal, "internal_error", "An unexpected error occurred. Please try again later.")

// StatusFor returns the HTTP status and client payload for err.
func StatusFor(err error) (int, ErrorResponse) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = ErrInternal
	}
	return appErr.Kind.HTTPStatus(), ErrorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Retryable: appErr.Retryable,
	}
}

// RespondError writes err as a JSON error response and aborts the chain.
func RespondError(c *gin.Context, err error) {
	status, body := StatusFor(err)
	logger := GetLogger()
	if status >= http.StatusInternalServerError {
		logger.Error(body.Message, zap.String("code", body.Code), zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logger.Warn(body.Message, zap.String("code", body.Code), zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, body)
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Code:    ErrInternal.Code,
					Message: ErrInternal.Message,
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response for handler-level input failures.
func JSONError(c *gin.Context, status int, code, message string) {
	GetLogger().Warn(message, zap.String("code", code))
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}
