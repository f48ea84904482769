package cart

import (
	"time"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// Derived-value queries. Each is a pure function of the current state and
// takes the read lock once, so subtotal and delivery fee inside a single
// Total call always use the same rate snapshot.

// Subtotal converts each line item's snapshot price into the display
// currency and sums price times quantity across the cart.
func (e *Engine) Subtotal() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.subtotalLocked()
}

// DeliveryFee is zero when any line item ships free; otherwise the flat
// base fee converted into the display currency. The waiver is deliberately
// all-or-nothing, not prorated per item.
func (e *Engine) DeliveryFee() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.deliveryFeeLocked()
}

// Total is subtotal minus the voucher discount plus the delivery fee. It
// is not clamped at zero: an oversized voucher can drive it negative, and
// the storefront has always let it.
func (e *Engine) Total() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.subtotalLocked() - e.state.VoucherDiscount + e.deliveryFeeLocked()
}

// ItemCount sums the quantities of all line items, for badge displays.
func (e *Engine) ItemCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, item := range e.state.Items {
		count += item.Quantity
	}
	return count
}

// State returns a copy of the current cart state for rendering.
func (e *Engine) State() domain.CartState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state := e.state
	state.Items = make([]domain.LineItem, len(e.state.Items))
	copy(state.Items, e.state.Items)
	state.ExchangeRates = make(map[string]float64, len(e.state.ExchangeRates))
	for code, rate := range e.state.ExchangeRates {
		state.ExchangeRates[code] = rate
	}
	if e.state.LastRateUpdate != nil {
		ts := *e.state.LastRateUpdate
		state.LastRateUpdate = &ts
	}
	return state
}

// UsingFallbackRates reports whether prices are currently converted with
// the hardcoded fallback table instead of live rates.
func (e *Engine) UsingFallbackRates() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fallbackRates
}

// LastRateUpdate returns the time of the most recent rate refresh, or nil
// if rates were never fetched.
func (e *Engine) LastRateUpdate() *time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state.LastRateUpdate == nil {
		return nil
	}
	ts := *e.state.LastRateUpdate
	return &ts
}

func (e *Engine) subtotalLocked() float64 {
	rate := e.displayRateLocked()
	sum := 0.0
	for _, item := range e.state.Items {
		sum += item.Product.BasePrice * rate * float64(item.Quantity)
	}
	return sum
}

func (e *Engine) deliveryFeeLocked() float64 {
	for _, item := range e.state.Items {
		if item.Product.FreeDelivery {
			return 0
		}
	}
	return domain.BaseDeliveryFee * e.displayRateLocked()
}

// displayRateLocked resolves the conversion rate for the display currency,
// defaulting to 1 when the rate is missing or the display currency is the
// base currency itself.
func (e *Engine) displayRateLocked() float64 {
	if rate, ok := e.state.ExchangeRates[e.state.Currency]; ok && rate != 0 {
		return rate
	}
	return 1
}
