package payment

import (
	"context"

	"imobil/models"
)

// Event types the workflow acts on.
const (
	EventCheckoutCompleted             = "checkout.session.completed"
	EventCheckoutAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	StatusPaid                         = "paid"
)

// Metadata keys carried round-trip through the gateway.
const (
	MetaListingID = "listingId"
	MetaPlan      = "plan"
	MetaType      = "type"
)

// CheckoutRequest describes a single-item hosted checkout.
type CheckoutRequest struct {
	Name        string
	Description string
	UnitAmount  int64
	Currency    string
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

// Gateway is the external payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*models.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*models.GatewaySession, error)
	// ParseWebhook verifies the signature over the unmodified payload and decodes it.
	ParseWebhook(payload []byte, signatureHeader string) (*models.GatewayEvent, error)
}
