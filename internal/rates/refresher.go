package rates

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval matches the storefront's historical five-minute refresh.
const DefaultInterval = 5 * time.Minute

// RateSink receives refreshed rate tables. Consumers define this
// interface, not the cart engine.
type RateSink interface {
	RefreshExchangeRates(ctx context.Context, rates map[string]float64, fromFallback bool)
}

// Refresher periodically pushes a fresh rate table into the sink. Every
// tick delivers a table: live rates when the fetch succeeds, the fallback
// otherwise. There is no backoff or retry beyond the next scheduled tick.
type Refresher struct {
	client   *Client
	sink     RateSink
	interval time.Duration
	logger   *zap.Logger
}

func NewRefresher(client *Client, sink RateSink, interval time.Duration, logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		client:   client,
		sink:     sink,
		interval: interval,
		logger:   logger,
	}
}

// Run fetches immediately, then on every tick until the context is
// cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	rates, fromFallback := r.client.FetchOrFallback(ctx)
	r.sink.RefreshExchangeRates(ctx, rates, fromFallback)
	r.logger.Debug("exchange rates refreshed",
		zap.Int("currencies", len(rates)),
		zap.Bool("fallback", fromFallback))
}
