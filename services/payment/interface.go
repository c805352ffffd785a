package payment

import (
	"context"
	"time"

	listingRepo "imobil/database/repository/listing"
	"imobil/models"

	"go.uber.org/zap"
)

type PaymentService interface {
	// Promotion checkout, owner only.
	CreateCheckout(ctx context.Context, requesterID, listingRef, planKey string) (*models.CheckoutSession, error)
	// Reservation or full payment checkout.
	CreatePaymentCheckout(ctx context.Context, listingRef string, paymentType models.PaymentType) (*models.CheckoutSession, error)

	ConfirmByPolling(ctx context.Context, sessionID string) (*Confirmation, error)
	ConfirmByWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (*WebhookResult, error)
}

// PromotionScheduler schedules the job that unfeatures a listing once its
// promotion window ends.
type PromotionScheduler interface {
	SchedulePromotionExpiry(ctx context.Context, listingID string, featuredUntil time.Time) error
}

// DefaultPaymentService is the production implementation. A nil Gateway
// disables payments: every operation returns ErrNotConfigured.
type DefaultPaymentService struct {
	Listings  listingRepo.ListingRepository
	Gateway   Gateway
	Scheduler PromotionScheduler
	Logger    *zap.Logger

	Currency           string
	ReservationPercent float64
	FrontendURL        string
	Now                func() time.Time
}

// Confirmation is returned by a successful polling confirmation.
type Confirmation struct {
	ListingID     string             `json:"listingId"`
	Plan          string             `json:"plan,omitempty"`
	FeaturedUntil *time.Time         `json:"featuredUntil,omitempty"`
	PaymentType   models.PaymentType `json:"paymentType,omitempty"`
}

// WebhookResult reports what a verified event did.
type WebhookResult struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Applied   bool   `json:"applied"`
}

func (s *DefaultPaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultPaymentService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
