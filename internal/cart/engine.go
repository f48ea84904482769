package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// ErrInvalidProduct is returned by AddItem when the product snapshot has no
// identifier or no price. The cart is left unchanged.
var ErrInvalidProduct = errors.New("product requires an id and a price")

// Store persists cart snapshots. Consumers define this interface, not the
// storage implementations.
type Store interface {
	Load(ctx context.Context) (*domain.CartSnapshot, error)
	Save(ctx context.Context, snap domain.CartSnapshot) error
}

// Engine is the sole owner and mutator of the cart state. Every mutation
// is applied under the lock and written through to the store before the
// call returns; derived values are recomputed from current state on every
// read, never cached.
//
// Persistence write failures are logged and absorbed: a transient storage
// problem must never break the shopping experience.
type Engine struct {
	mu     sync.RWMutex
	state  domain.CartState
	store  Store
	logger *zap.Logger

	// fallbackRates reports whether the current rate table came from the
	// hardcoded fallback rather than a live fetch. In-memory only.
	fallbackRates bool

	now func() time.Time
}

func NewEngine(store Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		state:  domain.NewCartState(),
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Load rehydrates the cart from the store. Absent or malformed data falls
// back to the default empty state; Load never fails.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.store.Load(ctx)
	if err != nil || snap == nil {
		e.state = domain.NewCartState()
		return
	}

	state, err := snap.State()
	if err != nil {
		e.logger.Warn("discarding unreadable cart snapshot", zap.Error(err))
		e.state = domain.NewCartState()
		return
	}
	e.state = state
}

// AddItem appends a line item for the product, or increments the quantity
// of the existing line item for the same product ID. Quantities below 1
// are treated as 1. Missing optional snapshot fields get their defaults.
func (e *Engine) AddItem(ctx context.Context, in domain.ProductInput, quantity int) error {
	if in.ID == "" || in.Price == nil {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.state.Items {
		if e.state.Items[i].Product.ID == in.ID {
			e.state.Items[i].Quantity += quantity
			e.persist(ctx)
			return nil
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = domain.BaseCurrency
	}
	e.state.Items = append(e.state.Items, domain.LineItem{
		Product: domain.Product{
			ID:              in.ID,
			Name:            in.Name,
			BasePrice:       *in.Price,
			BaseCurrency:    currency,
			FreeDelivery:    in.FreeDelivery,
			DiscountPercent: in.DiscountPercent,
			StockQuantity:   in.StockQuantity,
		},
		Quantity: quantity,
	})
	e.persist(ctx)
	return nil
}

// RemoveItem deletes the line item for the product ID. Removing an absent
// product is a no-op, not an error.
func (e *Engine) RemoveItem(ctx context.Context, productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.state.Items {
		if e.state.Items[i].Product.ID == productID {
			e.state.Items = append(e.state.Items[:i], e.state.Items[i+1:]...)
			e.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets the quantity for the product's line item, clamping
// values below 1 up to 1. Unknown product IDs are a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.state.Items {
		if e.state.Items[i].Product.ID == productID {
			e.state.Items[i].Quantity = quantity
			e.persist(ctx)
			return
		}
	}
}

// ApplyVoucher replaces the voucher discount with the given amount,
// expressed in the display currency. Negative amounts clamp to zero.
func (e *Engine) ApplyVoucher(ctx context.Context, amount float64) {
	if amount < 0 {
		amount = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.VoucherDiscount = amount
	e.persist(ctx)
}

// Clear empties the cart and resets the voucher. The display currency and
// rate table survive a clear: the currency preference outlives the cart's
// contents.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Items = []domain.LineItem{}
	e.state.VoucherDiscount = 0
	e.persist(ctx)
}

// SetDisplayCurrency selects the currency prices are presented in. Empty
// or unrecognizable codes fall back to the base currency.
func (e *Engine) SetDisplayCurrency(ctx context.Context, code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		code = domain.BaseCurrency
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Currency = code
	e.persist(ctx)
}

// RefreshExchangeRates replaces the rate table wholesale and stamps the
// refresh time. fromFallback marks the table as the hardcoded fallback so
// callers can surface stale pricing if they choose to.
func (e *Engine) RefreshExchangeRates(ctx context.Context, rates map[string]float64, fromFallback bool) {
	if rates == nil {
		rates = map[string]float64{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now().UTC()
	e.state.ExchangeRates = rates
	e.state.LastRateUpdate = &now
	e.fallbackRates = fromFallback
	e.persist(ctx)
}

// persist writes the current state through to the store. Callers must hold
// the lock.
func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, e.state.Snapshot()); err != nil {
		e.logger.Warn("failed to persist cart state", zap.Error(err))
	}
}
