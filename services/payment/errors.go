package payment

import "imobil/utils"

var (
	ErrNotConfigured   = utils.NewError(utils.KindNotConfigured, "payments_not_configured", "Payments are not available")
	ErrInvalidID       = utils.NewError(utils.KindValidation, "invalid_listing_id", "Invalid listing id")
	ErrUnknownPlan     = utils.NewError(utils.KindValidation, "unknown_plan", "Unknown promotion plan")
	ErrInvalidType     = utils.NewError(utils.KindValidation, "invalid_payment_type", "Payment type must be reservation or full")
	ErrInvalidSession  = utils.NewError(utils.KindValidation, "invalid_session_id", "A checkout session id is required")
	ErrListingNotFound = utils.NewError(utils.KindNotFound, "listing_not_found", "Listing not found")
	ErrForbidden       = utils.NewError(utils.KindForbidden, "forbidden", "Only the listing owner can do this")
	ErrAlreadyPaid     = utils.NewError(utils.KindConflict, "already_paid", "This listing has already been paid")
	ErrNotPaid         = utils.NewError(utils.KindConflict, "payment_not_completed", "The payment has not been completed")
	ErrBadMetadata     = utils.NewError(utils.KindValidation, "bad_metadata", "The checkout session is not linked to a listing")
	ErrBadSignature    = utils.NewError(utils.KindSignatureInvalid, "invalid_signature", "Invalid webhook signature")
	ErrGateway         = utils.NewError(utils.KindUpstream, "payment_gateway_error", "The payment provider could not be reached")
	ErrStore           = utils.NewError(utils.KindUpstream, "store_unavailable", "Service temporarily unavailable. Please retry.")
)
