package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/services"
)

type WishlistController struct {
	carts  *services.CartService
	logger zerolog.Logger
}

func NewWishlistController(carts *services.CartService, logger zerolog.Logger) *WishlistController {
	return &WishlistController{carts: carts, logger: logger}
}

func (c *WishlistController) GetWishlist(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	products, err := c.carts.GetWishlist(ctx.Request.Context(), userID)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load wishlist")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load wishlist")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "wishlist": products})
}

func (c *WishlistController) SaveWishlist(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		Items []models.WishlistItem `json:"items"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Items must be an array")
		return
	}

	if err := c.carts.SaveWishlist(ctx.Request.Context(), userID, body.Items); err != nil {
		c.logger.Error().Err(err).Msg("Failed to save wishlist")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save wishlist")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Wishlist saved"})
}
