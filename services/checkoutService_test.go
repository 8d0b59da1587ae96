package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/payment"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeGateway struct {
	saleResult *models.PaymentResult
	saleErr    error
	saleCalls  int
	lastNonce  string
	lastAmount float64
	// onSale runs inside Sale, letting a test change state between
	// settlement and persistence
	onSale func()
}

func (g *fakeGateway) GenerateClientToken(ctx context.Context) (string, error) {
	return "fake-client-token", nil
}

func (g *fakeGateway) Sale(ctx context.Context, nonce string, amount float64) (*models.PaymentResult, error) {
	g.saleCalls++
	g.lastNonce = nonce
	g.lastAmount = amount
	if g.onSale != nil {
		g.onSale()
	}
	if g.saleErr != nil {
		return nil, g.saleErr
	}
	return g.saleResult, nil
}

func settledResult(transactionID string) *models.PaymentResult {
	return &models.PaymentResult{
		Success: true,
		Transaction: models.GatewayTransaction{
			ID:     transactionID,
			Status: "settled",
			Type:   "sale",
		},
	}
}

func setupCheckout(t *testing.T) (*CheckoutService, *repositories.MemoryProducts, *repositories.MemoryOrders, *fakeGateway) {
	t.Helper()
	store := repositories.NewMemoryStore()
	products := repositories.NewMemoryProducts(store)
	orders := repositories.NewMemoryOrders(store)
	gateway := &fakeGateway{saleResult: settledResult("tx-1")}
	svc := NewCheckoutService(products, orders, gateway, zerolog.Nop())
	return svc, products, orders, gateway
}

func addProduct(t *testing.T, products *repositories.MemoryProducts, name string, price float64) primitive.ObjectID {
	t.Helper()
	p := models.Product{Name: name, Slug: name, Price: price, Quantity: 100}
	if err := products.Create(context.Background(), &p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p.ID
}

func orderCount(t *testing.T, orders *repositories.MemoryOrders) int {
	t.Helper()
	all, err := orders.FindAll(context.Background())
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	return len(all)
}

func TestCheckoutComputesAmountAndCreatesOrder(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	buyer := primitive.NewObjectID()

	productA := addProduct(t, products, "product-a", 500)
	productB := addProduct(t, products, "product-b", 300)

	order, err := svc.Checkout(ctx, buyer, CheckoutRequest{
		Nonce: "nonce-1",
		Items: []models.CartItem{
			{Product: productA, Quantity: 2},
			{Product: productB, Quantity: 1},
		},
		// client disagrees; the recomputed amount must be charged anyway
		ClientTotal: 999,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if gateway.saleCalls != 1 {
		t.Fatalf("expected 1 sale call, got %d", gateway.saleCalls)
	}
	if gateway.lastAmount != 1300 {
		t.Fatalf("expected charge of 1300, got %v", gateway.lastAmount)
	}
	if gateway.lastNonce != "nonce-1" {
		t.Fatalf("wrong nonce sent to gateway: %q", gateway.lastNonce)
	}

	if order.Status != models.StatusNotProcessed {
		t.Fatalf("expected status %q, got %q", models.StatusNotProcessed, order.Status)
	}
	if order.Buyer != buyer {
		t.Fatalf("wrong buyer on order")
	}
	if len(order.Products) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Products))
	}
	if order.Products[0].Name != "product-a" || order.Products[0].Price != 500 || order.Products[0].Quantity != 2 {
		t.Fatalf("line snapshot wrong: %+v", order.Products[0])
	}
	if order.Total() != 1300 {
		t.Fatalf("expected total 1300, got %v", order.Total())
	}
	if order.Payment.Transaction.ID != "tx-1" || order.Payment.Transaction.Status != "settled" {
		t.Fatalf("gateway result not stored on order: %+v", order.Payment)
	}
	if orderCount(t, orders) != 1 {
		t.Fatalf("expected exactly one order")
	}
}

func TestCheckoutEmptyCartNeverCallsGateway(t *testing.T) {
	ctx := context.Background()
	svc, _, orders, gateway := setupCheckout(t)

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{Nonce: "nonce-1"})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if gateway.saleCalls != 0 {
		t.Fatalf("gateway must not be called on empty cart")
	}
	if orderCount(t, orders) != 0 {
		t.Fatalf("no order must be created")
	}
}

func TestCheckoutMissingNonceNeverCallsGateway(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	productA := addProduct(t, products, "product-a", 100)

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{
		Items: []models.CartItem{{Product: productA, Quantity: 1}},
	})
	if !errors.Is(err, ErrMissingNonce) {
		t.Fatalf("expected ErrMissingNonce, got %v", err)
	}
	if gateway.saleCalls != 0 {
		t.Fatalf("gateway must not be called without a nonce")
	}
	if orderCount(t, orders) != 0 {
		t.Fatalf("no order must be created")
	}
}

func TestCheckoutUnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, orders, gateway := setupCheckout(t)

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{
		Nonce: "nonce-1",
		Items: []models.CartItem{{Product: primitive.NewObjectID(), Quantity: 1}},
	})
	var unknown *UnknownProductError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownProductError, got %v", err)
	}
	if gateway.saleCalls != 0 {
		t.Fatalf("gateway must not be called for an unresolvable cart")
	}
	if orderCount(t, orders) != 0 {
		t.Fatalf("no order must be created")
	}
}

func TestCheckoutDecline(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	gateway.saleResult = &models.PaymentResult{Success: false, Message: "processor declined"}
	productA := addProduct(t, products, "product-a", 100)

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{
		Nonce: "nonce-1",
		Items: []models.CartItem{{Product: productA, Quantity: 1}},
	})
	var declined *DeclinedError
	if !errors.As(err, &declined) {
		t.Fatalf("expected DeclinedError, got %v", err)
	}
	if declined.Message != "processor declined" {
		t.Fatalf("expected provider reason, got %q", declined.Message)
	}
	if orderCount(t, orders) != 0 {
		t.Fatalf("a decline must never persist an order")
	}
}

func TestCheckoutRejectsUnacceptedSettlementStatus(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	gateway.saleResult = &models.PaymentResult{
		Success:     true,
		Transaction: models.GatewayTransaction{ID: "tx-2", Status: "processor_declined"},
	}
	productA := addProduct(t, products, "product-a", 100)

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{
		Nonce: "nonce-1",
		Items: []models.CartItem{{Product: productA, Quantity: 1}},
	})
	var declined *DeclinedError
	if !errors.As(err, &declined) {
		t.Fatalf("expected DeclinedError for unaccepted status, got %v", err)
	}
	if orderCount(t, orders) != 0 {
		t.Fatalf("nominal success with bad status must never persist an order")
	}
}

func TestCheckoutGatewayTransportError(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	gateway.saleErr = payment.ErrUnavailable
	productA := addProduct(t, products, "product-a", 100)

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{
		Nonce: "nonce-1",
		Items: []models.CartItem{{Product: productA, Quantity: 1}},
	})
	if !errors.Is(err, payment.ErrUnavailable) {
		t.Fatalf("expected transport error surfaced, got %v", err)
	}
	if orderCount(t, orders) != 0 {
		t.Fatalf("no order on gateway transport error")
	}
}

func TestCheckoutPersistFailedAfterSettlement(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	orders.FailCreate = errors.New("write failed")
	productA := addProduct(t, products, "product-a", 100)

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{
		Nonce: "nonce-1",
		Items: []models.CartItem{{Product: productA, Quantity: 1}},
	})
	var persistFailed *PersistFailedError
	if !errors.As(err, &persistFailed) {
		t.Fatalf("expected PersistFailedError, got %v", err)
	}
	if persistFailed.TransactionID != "tx-1" {
		t.Fatalf("transaction id must be surfaced for reconciliation, got %q", persistFailed.TransactionID)
	}
	if gateway.saleCalls != 1 {
		t.Fatalf("the charge must not be retried, got %d sale calls", gateway.saleCalls)
	}
}

func TestCheckoutIdempotentOnRequestID(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	buyer := primitive.NewObjectID()
	productA := addProduct(t, products, "product-a", 100)

	req := CheckoutRequest{
		Nonce:     "nonce-1",
		RequestID: "req-abc",
		Items:     []models.CartItem{{Product: productA, Quantity: 1}},
	}

	first, err := svc.Checkout(ctx, buyer, req)
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	second, err := svc.Checkout(ctx, buyer, req)
	if err != nil {
		t.Fatalf("retried checkout: %v", err)
	}

	if gateway.saleCalls != 1 {
		t.Fatalf("retry must not charge again, got %d sale calls", gateway.saleCalls)
	}
	if first.ID != second.ID {
		t.Fatalf("retry must return the original order")
	}
	if orderCount(t, orders) != 1 {
		t.Fatalf("exactly one order per settlement")
	}
}

func TestCheckoutDerivedRequestIDDedupsDoubleSubmit(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	buyer := primitive.NewObjectID()
	productA := addProduct(t, products, "product-a", 100)

	req := CheckoutRequest{
		Nonce: "nonce-1",
		Items: []models.CartItem{{Product: productA, Quantity: 1}},
	}

	if _, err := svc.Checkout(ctx, buyer, req); err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	if _, err := svc.Checkout(ctx, buyer, req); err != nil {
		t.Fatalf("second checkout: %v", err)
	}

	if gateway.saleCalls != 1 {
		t.Fatalf("immediate double-submit must dedup, got %d sale calls", gateway.saleCalls)
	}
	if orderCount(t, orders) != 1 {
		t.Fatalf("expected one order, got %d", orderCount(t, orders))
	}
}

func TestCheckoutAbortsWhenDedupLookupFails(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	productA := addProduct(t, products, "product-a", 100)
	lookupErr := errors.New("lookup failed")
	orders.FailFind = lookupErr

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{
		Nonce:     "nonce-1",
		RequestID: "req-1",
		Items:     []models.CartItem{{Product: productA, Quantity: 1}},
	})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected the lookup error surfaced, got %v", err)
	}
	if gateway.saleCalls != 0 {
		t.Fatalf("must not charge when the dedup check cannot run, got %d sale calls", gateway.saleCalls)
	}
	if orderCount(t, orders) != 0 {
		t.Fatalf("no order must be created")
	}
}

func TestCheckoutPersistFailedWhenPostSettlementLookupFails(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	productA := addProduct(t, products, "product-a", 100)

	// the transaction lookup fails only after the charge has settled
	gateway.onSale = func() { orders.FailFind = errors.New("lookup failed") }

	_, err := svc.Checkout(ctx, primitive.NewObjectID(), CheckoutRequest{
		Nonce:     "nonce-1",
		RequestID: "req-1",
		Items:     []models.CartItem{{Product: productA, Quantity: 1}},
	})
	var persistFailed *PersistFailedError
	if !errors.As(err, &persistFailed) {
		t.Fatalf("expected PersistFailedError, got %v", err)
	}
	if persistFailed.TransactionID != "tx-1" {
		t.Fatalf("transaction id must be surfaced for reconciliation, got %q", persistFailed.TransactionID)
	}
	if gateway.saleCalls != 1 {
		t.Fatalf("the charge must not be retried, got %d sale calls", gateway.saleCalls)
	}
}

func TestCheckoutDedupsOnTransactionID(t *testing.T) {
	ctx := context.Background()
	svc, products, orders, gateway := setupCheckout(t)
	buyer := primitive.NewObjectID()
	productA := addProduct(t, products, "product-a", 100)

	// distinct request ids, but the gateway reports the same settled
	// transaction both times
	first, err := svc.Checkout(ctx, buyer, CheckoutRequest{
		Nonce:     "nonce-1",
		RequestID: "req-1",
		Items:     []models.CartItem{{Product: productA, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	second, err := svc.Checkout(ctx, buyer, CheckoutRequest{
		Nonce:     "nonce-2",
		RequestID: "req-2",
		Items:     []models.CartItem{{Product: productA, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("second checkout: %v", err)
	}

	if gateway.saleCalls != 2 {
		t.Fatalf("expected 2 sale calls, got %d", gateway.saleCalls)
	}
	if first.ID != second.ID {
		t.Fatalf("one settled transaction must map to one order")
	}
	if orderCount(t, orders) != 1 {
		t.Fatalf("expected one order, got %d", orderCount(t, orders))
	}
}
