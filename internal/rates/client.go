package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// DefaultBaseURL is the public quoting service the storefront has always
// used; the path is parameterized by the base currency.
const DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

// Client fetches exchange rates quoted against the cart's base currency.
// The outbound call runs through a circuit breaker: once the service has
// failed repeatedly the breaker opens and FetchOrFallback short-circuits
// straight to the fallback table until the service recovers.
type Client struct {
	baseURL      string
	baseCurrency string
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker[map[string]float64]
	logger       *zap.Logger
}

func NewClient(baseURL, baseCurrency string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if baseCurrency == "" {
		baseCurrency = domain.BaseCurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:    "exchange-rates",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}

	return &Client{
		baseURL:      baseURL,
		baseCurrency: baseCurrency,
		httpClient:   &http.Client{Timeout: timeout},
		breaker:      gobreaker.NewCircuitBreaker[map[string]float64](settings),
		logger:       logger,
	}
}

// Fetch returns the live rate table, or an error on any network, HTTP or
// body problem.
func (c *Client) Fetch(ctx context.Context) (map[string]float64, error) {
	return c.breaker.Execute(func() (map[string]float64, error) {
		return c.fetch(ctx)
	})
}

// FetchOrFallback never fails: when the live fetch errors for any reason
// the hardcoded fallback table is substituted, so downstream pricing never
// reads an empty rate table. The second return reports fallback use.
func (c *Client) FetchOrFallback(ctx context.Context) (map[string]float64, bool) {
	rates, err := c.Fetch(ctx)
	if err != nil {
		c.logger.Warn("exchange rate fetch failed, using fallback rates", zap.Error(err))
		return Fallback(), true
	}
	return rates, false
}

func (c *Client) fetch(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.baseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rate service returned status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rate response contained no rates")
	}

	return body.Rates, nil
}

// Fallback returns a copy of the hardcoded approximate rate table.
func Fallback() map[string]float64 {
	rates := make(map[string]float64, len(domain.FallbackRates))
	for code, rate := range domain.FallbackRates {
		rates[code] = rate
	}
	return rates
}
