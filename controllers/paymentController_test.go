package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopkart-dev/shopkart-api/middlewares"
	"github.com/shopkart-dev/shopkart-api/models"
	"github.com/shopkart-dev/shopkart-api/repositories"
	"github.com/shopkart-dev/shopkart-api/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubGateway struct {
	result *models.PaymentResult
	err    error
}

func (g *stubGateway) GenerateClientToken(ctx context.Context) (string, error) {
	return "stub-token", nil
}

func (g *stubGateway) Sale(ctx context.Context, nonce string, amount float64) (*models.PaymentResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type checkoutFixture struct {
	engine    *gin.Engine
	store     *repositories.MemoryStore
	products  *repositories.MemoryProducts
	orders    *repositories.MemoryOrders
	gateway   *stubGateway
	buyer     models.User
	productID primitive.ObjectID
}

func setupPayment(t *testing.T) *checkoutFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repositories.NewMemoryStore()
	products := repositories.NewMemoryProducts(store)
	orders := repositories.NewMemoryOrders(store)
	gateway := &stubGateway{result: &models.PaymentResult{
		Success:     true,
		Transaction: models.GatewayTransaction{ID: "tx-1", Status: "settled"},
	}}

	buyer := models.User{Name: "buyer", Email: "buyer@example.com"}
	if err := store.Create(context.Background(), &buyer); err != nil {
		t.Fatalf("create buyer: %v", err)
	}
	product := models.Product{Name: "widget", Slug: "widget", Price: 250, Quantity: 10}
	if err := products.Create(context.Background(), &product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	checkout := services.NewCheckoutService(products, orders, gateway, zerolog.Nop())
	ctrl := NewPaymentController(checkout, store, zerolog.Nop())

	engine := gin.New()
	asBuyer := func(ctx *gin.Context) {
		ctx.Set(middlewares.ContextUserID, buyer.ID.Hex())
		ctx.Next()
	}
	engine.POST("/payment/checkout", asBuyer, ctrl.Checkout)
	engine.GET("/payment/client-token", asBuyer, ctrl.ClientToken)

	return &checkoutFixture{
		engine:    engine,
		store:     store,
		products:  products,
		orders:    orders,
		gateway:   gateway,
		buyer:     buyer,
		productID: product.ID,
	}
}

func (f *checkoutFixture) post(t *testing.T, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/payment/checkout", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	return w, resp
}

func TestCheckoutEndpointCreatesOrder(t *testing.T) {
	f := setupPayment(t)

	w, resp := f.post(t, map[string]any{
		"nonce": "nonce-1",
		"cart":  []map[string]any{{"product": f.productID.Hex(), "quantity": 2}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %v", resp)
	}

	orders, err := f.orders.FindByBuyer(context.Background(), f.buyer.ID)
	if err != nil || len(orders) != 1 {
		t.Fatalf("expected one order for buyer, got %d (%v)", len(orders), err)
	}
	if orders[0].Total() != 500 {
		t.Fatalf("expected total 500, got %v", orders[0].Total())
	}
}

func TestCheckoutEndpointEmptyCart(t *testing.T) {
	f := setupPayment(t)

	w, resp := f.post(t, map[string]any{"nonce": "nonce-1", "cart": []any{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp["success"] != false {
		t.Fatalf("expected failure envelope")
	}
}

func TestCheckoutEndpointDecline(t *testing.T) {
	f := setupPayment(t)
	f.gateway.result = &models.PaymentResult{Success: false, Message: "processor declined"}

	w, resp := f.post(t, map[string]any{
		"nonce": "nonce-1",
		"cart":  []map[string]any{{"product": f.productID.Hex(), "quantity": 1}},
	})
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", w.Code)
	}
	if resp["message"] != "processor declined" {
		t.Fatalf("provider reason lost: %v", resp["message"])
	}

	orders, _ := f.orders.FindAll(context.Background())
	if len(orders) != 0 {
		t.Fatalf("decline must not create an order")
	}
}

func TestCheckoutEndpointPersistFailed(t *testing.T) {
	f := setupPayment(t)
	f.orders.FailCreate = errors.New("write failed")

	w, resp := f.post(t, map[string]any{
		"nonce": "nonce-1",
		"cart":  []map[string]any{{"product": f.productID.Hex(), "quantity": 1}},
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if resp["code"] != "order_record_failed_after_settlement" {
		t.Fatalf("persist failure must carry its own code, got %v", resp)
	}
	if resp["transactionId"] != "tx-1" {
		t.Fatalf("transaction id must be surfaced, got %v", resp)
	}
}

func TestClientTokenEndpoint(t *testing.T) {
	f := setupPayment(t)

	req := httptest.NewRequest(http.MethodGet, "/payment/client-token", nil)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["token"] != "stub-token" {
		t.Fatalf("token missing from response: %v", resp)
	}
}
