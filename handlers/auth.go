package handlers

import (
	"net/http"

	"imobil/middleware"
	"imobil/services/auth"
	"imobil/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves phone login and email accounts.
type AuthHandler struct {
	Service auth.AuthService
}

func NewAuthHandler(svc auth.AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

// SendOTPHandler sends a login code to the given phone.
func (h *AuthHandler) SendOTPHandler(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, auth.ErrInvalidPhone)
		return
	}

	issued, err := h.Service.RequestCode(c.Request.Context(), req.Phone, c.ClientIP())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code sent", "phone": issued.Phone, "expiresAt": issued.ExpiresAt})
}

// VerifyOTPHandler exchanges a valid code for a session token.
func (h *AuthHandler) VerifyOTPHandler(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, auth.ErrInvalidInput)
		return
	}

	resp, err := h.Service.VerifyCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("phone login", zap.String("accountId", resp.Account.ID), zap.Bool("isNew", resp.IsNew))
	c.JSON(http.StatusOK, resp)
}

// CompleteProfileHandler sets the display name and email of the caller's
// phone account.
func (h *AuthHandler) CompleteProfileHandler(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, auth.ErrInvalidInput)
		return
	}

	view, err := h.Service.CompleteProfile(c.Request.Context(), c.GetString(middleware.CtxPhone), req.Name, req.Email)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": view})
}

func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, auth.ErrInvalidInput)
		return
	}

	resp, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, auth.ErrInvalidInput)
		return
	}

	resp, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MeHandler returns the authenticated account.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	view, err := h.Service.GetAccount(c.Request.Context(), c.GetString(middleware.CtxAccountID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": view})
}
