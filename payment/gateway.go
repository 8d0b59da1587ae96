package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopkart-dev/shopkart-api/models"
)

// ErrUnavailable covers transport and infrastructure failures talking to
// the gateway. Declines are not errors; they come back inside the result.
var ErrUnavailable = errors.New("payment gateway unavailable")

type Config struct {
	BaseURL    string
	MerchantID string
	PublicKey  string
	PrivateKey string
	Timeout    time.Duration
}

func ConfigFromEnv() (Config, error) {
	cfg := Config{
		BaseURL:    os.Getenv("GATEWAY_BASE_URL"),
		MerchantID: os.Getenv("GATEWAY_MERCHANT_ID"),
		PublicKey:  os.Getenv("GATEWAY_PUBLIC_KEY"),
		PrivateKey: os.Getenv("GATEWAY_PRIVATE_KEY"),
		Timeout:    30 * time.Second,
	}
	if cfg.BaseURL == "" || cfg.MerchantID == "" || cfg.PublicKey == "" || cfg.PrivateKey == "" {
		return Config{}, fmt.Errorf("gateway configuration missing")
	}
	return cfg, nil
}

// Gateway talks to the tokenized payment provider's REST API.
type Gateway struct {
	client     *resty.Client
	merchantID string
}

func New(cfg Config) *Gateway {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.PublicKey, cfg.PrivateKey).
		SetHeader("Accept", "application/json")
	return &Gateway{client: client, merchantID: cfg.MerchantID}
}

// GenerateClientToken mints the short-lived artifact the client-side
// payment widget needs to render.
func (g *Gateway) GenerateClientToken(ctx context.Context) (string, error) {
	var body struct {
		ClientToken string `json:"clientToken"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&body).
		ForceContentType("application/json").
		Post(fmt.Sprintf("/merchants/%s/client_token", g.merchantID))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK || body.ClientToken == "" {
		return "", fmt.Errorf("%w: token request failed with status %d", ErrUnavailable, resp.StatusCode())
	}
	return body.ClientToken, nil
}

// Sale submits a sale transaction for the exact amount with immediate
// settlement requested. The nonce is redeemable exactly once.
func (g *Gateway) Sale(ctx context.Context, nonce string, amount float64) (*models.PaymentResult, error) {
	payload := map[string]any{
		"amount":             strconv.FormatFloat(amount, 'f', 2, 64),
		"paymentMethodNonce": nonce,
		"options":            map[string]any{"submitForSettlement": true},
	}

	var result models.PaymentResult
	// ForceContentType keeps the response parsing working even when the
	// provider mislabels its JSON.
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&result).
		SetError(&result).
		ForceContentType("application/json").
		Post(fmt.Sprintf("/merchants/%s/transactions", g.merchantID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// A decline is a well-formed response (the provider uses 402); only
	// unexpected statuses count as infrastructure failures.
	if resp.IsSuccess() || resp.StatusCode() == http.StatusPaymentRequired {
		return &result, nil
	}
	return nil, fmt.Errorf("%w: sale request failed with status %d: %s",
		ErrUnavailable, resp.StatusCode(), resp.String())
}

// Accepted settlement states. A nominally successful response whose
// transaction status falls outside this set is treated as a decline.
var settlementStatuses = map[string]struct{}{
	"authorized":               {},
	"submitted_for_settlement": {},
	"settling":                 {},
	"settled":                  {},
}

func SettlementAccepted(status string) bool {
	_, ok := settlementStatuses[status]
	return ok
}
