package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/services"
)

type CartController struct {
	carts  *services.CartService
	logger zerolog.Logger
}

func NewCartController(carts *services.CartService, logger zerolog.Logger) *CartController {
	return &CartController{carts: carts, logger: logger}
}

func (c *CartController) GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	items, err := c.carts.GetCart(ctx.Request.Context(), userID)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load cart")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "cart": items})
}

func (c *CartController) SaveCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		Items []models.CartItem `json:"items"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Items must be an array")
		return
	}

	if err := c.carts.SaveCart(ctx.Request.Context(), userID, body.Items); err != nil {
		c.logger.Error().Err(err).Msg("Failed to save cart")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to save cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Cart saved"})
}

// SyncCart merges the client's offline cart with the stored one when a
// guest session becomes authenticated.
func (c *CartController) SyncCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		Items []models.CartItem `json:"items"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Items must be an array")
		return
	}

	items, err := c.carts.SyncCart(ctx.Request.Context(), userID, body.Items)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to sync cart")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to sync cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "cart": items})
}
