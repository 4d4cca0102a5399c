package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/flyncarry/flyncarry/config"
	"github.com/flyncarry/flyncarry/internal/domain"
)

// Card carries the buyer's card details through to the provider. The
// marketplace never stores them.
type Card struct {
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVC         string `json:"cvc"`
	HolderName  string `json:"holder_name"`
}

type ChargeRequest struct {
	BuyerID     string `json:"buyer_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Card        Card   `json:"card"`
	Reference   string `json:"reference"`
}

type ChargeResult struct {
	Status            string `json:"status"`
	ProviderPaymentID string `json:"payment_id"`
	ErrorMessage      string `json:"error_message"`
}

type RefundResult struct {
	Status       string `json:"status"`
	RefundID     string `json:"refund_id"`
	ErrorMessage string `json:"error_message"`
}

const StatusSuccess = "success"

// Client is the synchronous request/response surface of the payment
// provider. Timeouts and transport errors surface immediately; there
// is no retry loop.
type Client interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, providerPaymentID string, amountCents int64) (*RefundResult, error)
}

type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPClient(cfg config.GatewayConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	var result ChargeResult
	if err := c.post(ctx, "/v1/payments", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Refund(ctx context.Context, providerPaymentID string, amountCents int64) (*RefundResult, error) {
	body := map[string]interface{}{
		"payment_id":   providerPaymentID,
		"amount_cents": amountCents,
	}
	var result RefundResult
	if err := c.post(ctx, "/v1/refunds", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: gateway returned %d", domain.ErrProvider, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed gateway response: %v", domain.ErrProvider, err)
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
