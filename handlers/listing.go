package handlers

import (
	"net/http"

	"imobil/middleware"
	"imobil/models"
	"imobil/services/listing"
	"imobil/utils"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	Service listing.ListingService
}

func NewListingHandler(svc listing.ListingService) *ListingHandler {
	return &ListingHandler{Service: svc}
}

func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	var in models.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", "Invalid request: "+err.Error())
		return
	}

	l, err := h.Service.Create(c.Request.Context(), c.GetString(middleware.CtxAccountID), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// GetListingHandler accepts either the id or a slug ending in the id.
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	l, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) DeleteListingHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.GetString(middleware.CtxAccountID), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
