package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"github.com/shopkart-dev/shopkart-api/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderController struct {
	orders *services.OrderService
	logger zerolog.Logger
}

func NewOrderController(orders *services.OrderService, logger zerolog.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

// GetMyOrders lists the authenticated buyer's orders, newest first.
func (c *OrderController) GetMyOrders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	orders, err := c.orders.ListByBuyer(ctx.Request.Context(), userID)
	if err != nil {
		c.logger.Error().Err(err).Msg("Unable to fetch orders")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Error while getting orders")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "orders": orders})
}

// GetAllOrders lists every order. Admin only; gating happens in the
// route middleware.
func (c *OrderController) GetAllOrders(ctx *gin.Context) {
	orders, err := c.orders.ListAll(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Unable to fetch orders")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Error fetching orders")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "orders": orders})
}

// UpdateOrderStatus sets the fulfilment status. Admin only.
func (c *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	order, err := c.orders.SetStatus(ctx.Request.Context(), orderID, body.Status)
	if errors.Is(err, services.ErrInvalidStatus) {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order status: "+body.Status)
		return
	}
	if errors.Is(err, repositories.ErrNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("Order status update failed")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Order status update failed")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "order": order})
}
