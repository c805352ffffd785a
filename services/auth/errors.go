package auth

import "imobil/utils"

var (
	ErrInvalidPhone     = utils.NewError(utils.KindValidation, "invalid_phone", "A valid phone number is required")
	ErrInvalidCode      = utils.NewError(utils.KindValidation, "invalid_code", "The code must be 6 digits")
	ErrInvalidInput     = utils.NewError(utils.KindValidation, "invalid_input", "Missing or malformed fields")
	ErrRateLimited      = utils.NewError(utils.KindRateLimited, "rate_limited", "Too many code requests. Try again in a minute.")
	ErrCodeNotFound     = utils.NewError(utils.KindNotFound, "otp_not_found", "No pending code for this phone number")
	ErrCodeExpired      = utils.NewError(utils.KindUnauthorized, "otp_expired", "The code has expired. Request a new one.")
	ErrCodeMismatch     = utils.NewError(utils.KindUnauthorized, "otp_mismatch", "The code is incorrect")
	ErrTooManyAttempts  = utils.NewError(utils.KindRateLimited, "otp_attempts_exceeded", "Too many incorrect codes. Request a new one.")
	ErrAccountNotFound  = utils.NewError(utils.KindNotFound, "account_not_found", "Account not found")
	ErrAccountExists    = utils.NewError(utils.KindConflict, "account_exists", "An account with this email or phone already exists")
	ErrInvalidLogin     = utils.NewError(utils.KindUnauthorized, "invalid_credentials", "Invalid email or password")
	ErrStoreUnavailable = utils.NewError(utils.KindUpstream, "store_unavailable", "Service temporarily unavailable. Please retry.")
)
