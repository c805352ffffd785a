package otp

import (
	"context"
	"time"

	"imobil/models"
)

// DefaultRetention is how long an expired entry stays readable so a late
// verification reports expiry rather than absence.
const DefaultRetention = 5 * time.Minute

// Store holds at most one pending code per normalized phone. Put replaces any
// previous entry and its failure count; Get returns (nil, nil) when absent.
// Entries past ExpiresAt may still be returned and are checked by the caller.
type Store interface {
	Put(ctx context.Context, phone, code string, ttl time.Duration) (models.PendingOTP, error)
	Get(ctx context.Context, phone string) (*models.PendingOTP, error)
	// Delete removes the entry and reports whether one was present, so that
	// concurrent consumers of the same code cannot both succeed.
	Delete(ctx context.Context, phone string) (bool, error)
	// RecordFailure counts a mismatched attempt against the live entry and
	// returns the running total.
	RecordFailure(ctx context.Context, phone string) (int64, error)
}
