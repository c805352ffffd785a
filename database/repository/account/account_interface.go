package accountRepo

import (
	"context"
	"errors"

	"imobil/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned by updates that match no account.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicate is returned when a unique email or phone is already taken.
	ErrDuplicate = errors.New("account already exists")
)

// AccountRepository defines methods for account data access. Lookups return
// (nil, nil) when no account matches.
type AccountRepository interface {
	// GetByID retrieves an account by its unique ID.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	// GetByPhone retrieves an account by its normalized phone number.
	GetByPhone(ctx context.Context, phone string) (*models.Account, error)
	// GetByEmail retrieves an account by its email address.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// Create inserts a new account record and assigns its ID.
	Create(ctx context.Context, account *models.Account) error
	// SetPhone records a phone number on an account that has none.
	SetPhone(ctx context.Context, id primitive.ObjectID, phone string) error
	// UpdateProfile changes the display name and email of an account.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) error
}
