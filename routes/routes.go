package routes

import (
	"time"

	"imobil/handlers"
	"imobil/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoute registers the payment webhook. It must be registered
// before any middleware that reads or rewrites the request body, so the
// signature is checked against the bytes the gateway sent.
func RegisterWebhookRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/webhook", hb.WebhookHandler)
}

// RegisterAuthRoutes registers phone login and account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/send-otp", hb.SendOTPHandler)
		api.POST("/verify-otp", hb.VerifyOTPHandler)
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.JWTAuth(hb.Tokens))
		protected.POST("/complete-profile", hb.CompleteProfileHandler)
		protected.GET("/me", hb.MeHandler)
	}
}

// RegisterPaymentRoutes registers checkout and confirmation endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.GET("/plans", hb.PlansHandler)
		// The success page confirms without a session token.
		api.POST("/confirm", hb.ConfirmPaymentHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(hb.Tokens))
		protected.POST("/checkout", hb.CheckoutHandler)
		protected.POST("/listing-checkout", hb.ListingCheckoutHandler)
	}
}

// RegisterListingRoutes registers the listing ownership endpoints.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/listings")
	{
		api.GET("/:id", hb.GetListingHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(hb.Tokens))
		protected.POST("", hb.CreateListingHandler)
		protected.DELETE("/:id", hb.DeleteListingHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
// Middleware added here applies only to routes registered after it.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string, global ...gin.HandlerFunc) {
	RegisterWebhookRoute(r, hb)
	RegisterHealthRoute(r, hb)

	allowAll := len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*")
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))
	r.Use(global...)

	RegisterAuthRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterListingRoutes(r, hb)
}
