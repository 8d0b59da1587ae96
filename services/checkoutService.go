package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/payment"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrMissingNonce = errors.New("payment nonce is required")
	ErrBadQuantity  = errors.New("item quantity must be at least 1")
)

type UnknownProductError struct {
	ProductID primitive.ObjectID
}

func (e *UnknownProductError) Error() string {
	return "unknown product " + e.ProductID.Hex()
}

// DeclinedError carries the provider's reason so the client can offer
// "use a different card" rather than "try again".
type DeclinedError struct {
	Message string
	Result  *models.PaymentResult
}

func (e *DeclinedError) Error() string { return e.Message }

// PersistFailedError means money has moved but the order record did not
// save. It must never be collapsed into a generic failure: the charge is
// not retried and support needs the transaction id.
type PersistFailedError struct {
	TransactionID string
	Err           error
}

func (e *PersistFailedError) Error() string {
	return fmt.Sprintf("payment settled (transaction %s) but order record failed: %v", e.TransactionID, e.Err)
}

func (e *PersistFailedError) Unwrap() error { return e.Err }

type PaymentGateway interface {
	GenerateClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, nonce string, amount float64) (*models.PaymentResult, error)
}

type CheckoutRequest struct {
	Nonce     string
	RequestID string
	Items     []models.CartItem
	// ClientTotal is what the client thinks it owes. It is never chargeable;
	// a disagreement with the recomputed amount is logged.
	ClientTotal float64
}

type CheckoutService struct {
	products repositories.ProductRepository
	orders   repositories.OrderRepository
	gateway  PaymentGateway
	logger   zerolog.Logger
}

func NewCheckoutService(products repositories.ProductRepository, orders repositories.OrderRepository, gateway PaymentGateway, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{products: products, orders: orders, gateway: gateway, logger: logger}
}

func (s *CheckoutService) ClientToken(ctx context.Context) (string, error) {
	return s.gateway.GenerateClientToken(ctx)
}

// Checkout runs the order transaction: local validation, server-side
// amount recomputation, gateway settlement, order persistence. Failures
// before the Sale call never reach the gateway; failures after a
// settlement never re-charge.
func (s *CheckoutService) Checkout(ctx context.Context, buyer primitive.ObjectID, req CheckoutRequest) (*models.Order, error) {
	if req.Nonce == "" {
		return nil, ErrMissingNonce
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = deriveRequestID(buyer, req.Items, time.Now())
	}

	// A retried checkout with a known request id returns the order it
	// already produced instead of charging again. If the lookup itself
	// fails the checkout aborts; charging without the dedup check could
	// double-bill.
	existing, err := s.orders.FindByRequestID(ctx, requestID)
	if err == nil && existing.Buyer == buyer {
		return existing, nil
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(req.Items))
	amount := 0.0
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, ErrBadQuantity
		}
		product, err := s.products.FindByID(ctx, item.Product)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &UnknownProductError{ProductID: item.Product}
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.OrderLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		amount += product.Price * float64(item.Quantity)
	}

	if req.ClientTotal > 0 && math.Abs(req.ClientTotal-amount) > 0.005 {
		s.logger.Warn().
			Str("buyer", buyer.Hex()).
			Float64("clientTotal", req.ClientTotal).
			Float64("computedAmount", amount).
			Msg("Client-submitted total disagrees with recomputed amount, charging recomputed")
	}

	result, err := s.gateway.Sale(ctx, req.Nonce, amount)
	if err != nil {
		return nil, err
	}

	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Payment declined"
		}
		return nil, &DeclinedError{Message: msg, Result: result}
	}
	if !payment.SettlementAccepted(result.Transaction.Status) {
		return nil, &DeclinedError{
			Message: fmt.Sprintf("Payment failed - status: %s", result.Transaction.Status),
			Result:  result,
		}
	}

	// One order per settled transaction, even if persistence is retried.
	// Past this point money has moved, so a failed lookup surfaces with
	// the transaction id instead of risking a duplicate record.
	dup, err := s.orders.FindByTransactionID(ctx, result.Transaction.ID)
	if err == nil {
		return dup, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		s.logger.Error().
			Err(err).
			Str("transactionId", result.Transaction.ID).
			Msg("Duplicate check failed after settlement")
		return nil, &PersistFailedError{TransactionID: result.Transaction.ID, Err: err}
	}

	order := &models.Order{
		Buyer:     buyer,
		Products:  lines,
		Payment:   *result,
		Status:    models.StatusNotProcessed,
		RequestID: requestID,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().
			Err(err).
			Str("buyer", buyer.Hex()).
			Str("transactionId", result.Transaction.ID).
			Msg("Payment settled but order record failed")
		return nil, &PersistFailedError{TransactionID: result.Transaction.ID, Err: err}
	}

	s.logger.Info().
		Str("orderId", order.ID.Hex()).
		Str("transactionId", result.Transaction.ID).
		Float64("amount", amount).
		Msg("Order created")
	return order, nil
}

// deriveRequestID gives a checkout without a client-supplied request id a
// deterministic one from (buyer, cart lines, minute bucket), so an
// immediate double-submit still dedups.
func deriveRequestID(buyer primitive.ObjectID, items []models.CartItem, now time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s", buyer.Hex())
	for _, item := range items {
		fmt.Fprintf(h, "|%s:%d", item.Product.Hex(), item.Quantity)
	}
	fmt.Fprintf(h, "|%d", now.Unix()/60)
	return hex.EncodeToString(h.Sum(nil))
}
