package listingRepo

import (
	"context"
	"errors"
	"time"

	"imobil/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by writes that match no listing.
var ErrNotFound = errors.New("listing not found")

// ListingRepository defines methods for listing data access. GetByID returns
// (nil, nil) when no listing matches. Every write is a single-document update.
type ListingRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ApplyPromotion sets featured and clears the free-tier flag. featuredUntil
	// only moves forward.
	ApplyPromotion(ctx context.Context, id primitive.ObjectID, promo models.Promotion) error
	// MarkPaid records a confirmed listing payment.
	MarkPaid(ctx context.Context, id primitive.ObjectID, record models.PaymentRecord) error
	// ClearExpiredPromotion unfeatures the listing only if its window ended at or
	// before now. It reports whether the listing was changed.
	ClearExpiredPromotion(ctx context.Context, id primitive.ObjectID, now time.Time) (bool, error)
}
