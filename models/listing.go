package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentType distinguishes a reservation deposit from a full purchase payment.
type PaymentType string

const (
	PaymentTypeReservation PaymentType = "reservation"
	PaymentTypeFull        PaymentType = "full"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeReservation || t == PaymentTypeFull
}

// Listing is a real-estate classified. The featured and payment fields are
// written only by confirmed payments.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Images      []string           `bson:"images" json:"images"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`

	Featured      bool       `bson:"featured" json:"featured"`
	FeaturedUntil *time.Time `bson:"featured_until,omitempty" json:"featuredUntil,omitempty"`
	FreeTier      bool       `bson:"free_tier" json:"freeTier"`

	IsPaid      bool        `bson:"is_paid" json:"isPaid"`
	PaymentID   string      `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	PaymentType PaymentType `bson:"payment_type,omitempty" json:"paymentType,omitempty"`
	PayerEmail  string      `bson:"payer_email,omitempty" json:"-"`
	AmountPaid  float64     `bson:"amount_paid,omitempty" json:"amountPaid,omitempty"`
	Currency    string      `bson:"currency,omitempty" json:"currency,omitempty"`
	PaidAt      *time.Time  `bson:"paid_at,omitempty" json:"paidAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ListingInput is the client-writable subset of a listing.
type ListingInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gt=0"`
	Category    string   `json:"category" binding:"required"`
	Images      []string `json:"images"`
}

// Promotion is the state written when a promotion payment is confirmed.
type Promotion struct {
	FeaturedUntil time.Time
}

// PaymentRecord is the state written when a listing payment is confirmed.
type PaymentRecord struct {
	PaymentID   string
	PayerEmail  string
	PaymentType PaymentType
	Amount      float64
	Currency    string
	PaidAt      time.Time
}
