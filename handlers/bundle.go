package handlers

import (
	"imobil/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers and the session verifier the
// routes need.
type HandlerBundle struct {
	Tokens *utils.TokenIssuer

	// Phone login and accounts
	SendOTPHandler         gin.HandlerFunc
	VerifyOTPHandler       gin.HandlerFunc
	CompleteProfileHandler gin.HandlerFunc
	RegisterHandler        gin.HandlerFunc
	LoginHandler           gin.HandlerFunc
	MeHandler              gin.HandlerFunc

	// Payments
	PlansHandler           gin.HandlerFunc
	CheckoutHandler        gin.HandlerFunc
	ListingCheckoutHandler gin.HandlerFunc
	ConfirmPaymentHandler  gin.HandlerFunc
	WebhookHandler         gin.HandlerFunc

	// Listings
	CreateListingHandler gin.HandlerFunc
	GetListingHandler    gin.HandlerFunc
	DeleteListingHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
