package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultPaystackBaseURL = "https://api.paystack.co"

// PaystackGateway implements PaymentGateway against the Paystack REST API.
type PaystackGateway struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewPaystackGateway(secretKey, baseURL string) *PaystackGateway {
	if baseURL == "" {
		baseURL = DefaultPaystackBaseURL
	}
	return &PaystackGateway{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		secretKey:  secretKey,
	}
}

type paystackInitRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type paystackInitResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"message"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type paystackVerifyResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"message"`
	Data   struct {
		Status string `json:"status"`
	} `json:"data"`
}

// Initialize creates a Paystack transaction. Amount is already in minor
// units (kobo for NGN), which is what Paystack expects.
func (g *PaystackGateway) Initialize(ctx context.Context, req ChargeRequest) (*Authorization, error) {
	body, err := json.Marshal(paystackInitRequest{
		Email:     req.Email,
		Amount:    req.AmountMinor,
		Currency:  req.Currency,
		Reference: req.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	var out paystackInitResponse
	if err := g.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack rejected initialize: %s", out.Msg)
	}

	return &Authorization{
		Reference:  out.Data.Reference,
		PaymentURL: out.Data.AuthorizationURL,
		AccessCode: out.Data.AccessCode,
	}, nil
}

// Verify asks Paystack whether the transaction behind reference was paid.
func (g *PaystackGateway) Verify(ctx context.Context, reference string) (bool, error) {
	var out paystackVerifyResponse
	if err := g.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &out); err != nil {
		return false, err
	}
	if !out.Status {
		return false, fmt.Errorf("paystack rejected verify: %s", out.Msg)
	}
	return out.Data.Status == "success", nil
}

func (g *PaystackGateway) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build paystack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paystack returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode paystack response: %w", err)
	}
	return nil
}
