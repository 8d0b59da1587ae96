package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/payment"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"github.com/shopkart-dev/shopkart-api/services"
	"github.com/shopkart-dev/shopkart-api/utils"
)

type PaymentController struct {
	checkout *services.CheckoutService
	users    repositories.UserRepository
	logger   zerolog.Logger
}

func NewPaymentController(checkout *services.CheckoutService, users repositories.UserRepository, logger zerolog.Logger) *PaymentController {
	return &PaymentController{checkout: checkout, users: users, logger: logger}
}

// ClientToken hands the client the gateway artifact its payment widget
// needs to collect card details.
func (c *PaymentController) ClientToken(ctx *gin.Context) {
	token, err := c.checkout.ClientToken(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Error generating client token")
		sendErrorResponse(ctx, http.StatusBadGateway, "Error generating token")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "token": token})
}

type checkoutBody struct {
	Nonce     string            `json:"nonce"`
	RequestID string            `json:"requestId"`
	Cart      []models.CartItem `json:"cart"`
	Amount    float64           `json:"amount"`
}

// Checkout settles payment and creates the order. Each failure class
// maps to its own status so the client can distinguish "fix your input",
// "try again", "use a different card" and "contact support".
func (c *PaymentController) Checkout(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body checkoutBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := c.checkout.Checkout(ctx.Request.Context(), userID, services.CheckoutRequest{
		Nonce:       body.Nonce,
		RequestID:   body.RequestID,
		Items:       body.Cart,
		ClientTotal: body.Amount,
	})
	if err != nil {
		c.respondCheckoutError(ctx, err)
		return
	}

	if user, uerr := c.users.FindByID(ctx.Request.Context(), userID); uerr == nil {
		if merr := utils.SendOrderConfirmation(user, order); merr != nil {
			c.logger.Warn().Err(merr).Str("orderId", order.ID.Hex()).Msg("Order confirmation email failed")
		}
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Payment successful and order created",
		"order":   order,
	})
}

func (c *PaymentController) respondCheckoutError(ctx *gin.Context, err error) {
	var unknownProduct *services.UnknownProductError
	var declined *services.DeclinedError
	var persistFailed *services.PersistFailedError

	switch {
	case errors.Is(err, services.ErrMissingNonce),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrBadQuantity):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	case errors.As(err, &unknownProduct):
		sendErrorResponse(ctx, http.StatusBadRequest, "Product not found: "+unknownProduct.ProductID.Hex())
	case errors.Is(err, payment.ErrUnavailable):
		sendErrorResponse(ctx, http.StatusBadGateway, "Payment processing failed. Please try again.")
	case errors.As(err, &declined):
		sendJSONResponse(ctx, http.StatusPaymentRequired, gin.H{
			"success": false,
			"message": declined.Message,
			"result":  declined.Result,
		})
	case errors.As(err, &persistFailed):
		// Money moved but the order did not save. Never retried here;
		// the transaction id makes reconciliation possible.
		sendJSONResponse(ctx, http.StatusInternalServerError, gin.H{
			"success":       false,
			"code":          "order_record_failed_after_settlement",
			"message":       "Payment successful but order creation failed. Contact support.",
			"transactionId": persistFailed.TransactionID,
		})
	default:
		c.logger.Error().Err(err).Msg("Checkout error")
		sendErrorResponse(ctx, http.StatusInternalServerError, "Payment failed")
	}
}
