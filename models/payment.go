package models

import "time"

// CheckoutSession is the gateway-hosted checkout created for a listing.
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// GatewaySession is the state of a checkout session as reported by the gateway.
type GatewaySession struct {
	ID              string
	PaymentStatus   string
	PaymentIntentID string
	Metadata        map[string]string
	AmountTotal     int64
	Currency        string
	CustomerEmail   string
	CreatedAt       time.Time
}

// GatewayEvent is a verified webhook notification.
type GatewayEvent struct {
	ID      string
	Type    string
	Session *GatewaySession
}

// PromotionExpiryPayload is the delayed job that unfeatures a listing.
type PromotionExpiryPayload struct {
	ListingID     string    `json:"listingId"`
	FeaturedUntil time.Time `json:"featuredUntil"`
}
