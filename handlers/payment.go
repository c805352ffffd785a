package handlers

import (
	"net/http"

	"imobil/middleware"
	"imobil/models"
	"imobil/services/payment"
	"imobil/utils"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the gateway's webhook signature.
const SignatureHeader = "Stripe-Signature"

// PaymentHandler serves checkout creation and payment confirmation.
type PaymentHandler struct {
	Service payment.PaymentService
}

func NewPaymentHandler(svc payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

// CheckoutHandler starts a promotion checkout for one of the caller's listings.
func (h *PaymentHandler) CheckoutHandler(c *gin.Context) {
	var req struct {
		ListingID string `json:"listingId" binding:"required"`
		Plan      string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, payment.ErrInvalidID)
		return
	}

	session, err := h.Service.CreateCheckout(c.Request.Context(), c.GetString(middleware.CtxAccountID), req.ListingID, req.Plan)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListingCheckoutHandler starts a reservation or full payment checkout.
func (h *PaymentHandler) ListingCheckoutHandler(c *gin.Context) {
	var req struct {
		ListingID string             `json:"listingId" binding:"required"`
		Type      models.PaymentType `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, payment.ErrInvalidType)
		return
	}

	session, err := h.Service.CreatePaymentCheckout(c.Request.Context(), req.ListingID, req.Type)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// PlansHandler lists the promotion plans.
func (h *PaymentHandler) PlansHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": payment.Plans()})
}

// ConfirmHandler confirms a checkout from the success redirect page.
func (h *PaymentHandler) ConfirmHandler(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	// The success page may pass the id as a query parameter with no body.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, payment.ErrInvalidSession)
			return
		}
	}
	if req.SessionID == "" {
		req.SessionID = c.Query("session_id")
	}

	conf, err := h.Service.ConfirmByPolling(c.Request.Context(), req.SessionID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "confirmation": conf})
}

// WebhookHandler verifies and applies a gateway notification. The body is read
// raw; nothing may parse it before the signature check.
func (h *PaymentHandler) WebhookHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable_body", "Could not read request body")
		return
	}

	res, err := h.Service.ConfirmByWebhook(c.Request.Context(), body, c.GetHeader(SignatureHeader))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "applied": res.Applied})
}
