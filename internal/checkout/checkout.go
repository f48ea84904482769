package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrUnknownReference    = errors.New("unknown checkout reference")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed by gateway")
)

// CartEngine is the slice of the cart engine checkout needs. Consumers
// define this interface.
type CartEngine interface {
	State() domain.CartState
	Total() float64
	ItemCount() int
	Clear(ctx context.Context)
}

type ChargeRequest struct {
	Reference   string
	AmountMinor int64
	Currency    string
	Email       string
}

type Authorization struct {
	Reference  string `json:"reference"`
	PaymentURL string `json:"payment_url"`
	AccessCode string `json:"access_code,omitempty"`
}

// PaymentGateway is the opaque external payment boundary: it receives a
// precomputed amount and later answers whether a reference was paid.
type PaymentGateway interface {
	Initialize(ctx context.Context, req ChargeRequest) (*Authorization, error)
	Verify(ctx context.Context, reference string) (bool, error)
}

// OrderCompletedEvent is the snapshot published after a verified payment.
type OrderCompletedEvent struct {
	Reference   string            `json:"reference"`
	Email       string            `json:"email"`
	Items       []domain.LineItem `json:"items"`
	TotalAmount float64           `json:"total_amount"`
	Currency    string            `json:"currency"`
	CompletedAt time.Time         `json:"completed_at"`
}

type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, event OrderCompletedEvent) error
}

type pendingCheckout struct {
	total     float64
	currency  string
	email     string
	startedAt time.Time
}

// Orchestrator drives the thin checkout flow: read the cart total once,
// hand it to the gateway, and clear the cart only after the gateway
// confirms payment.
type Orchestrator struct {
	mu        sync.Mutex
	engine    CartEngine
	gateway   PaymentGateway
	publisher EventPublisher
	pending   map[string]pendingCheckout
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrchestrator(engine CartEngine, gateway PaymentGateway, publisher EventPublisher, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		engine:    engine,
		gateway:   gateway,
		publisher: publisher,
		pending:   make(map[string]pendingCheckout),
		logger:    logger,
		now:       time.Now,
	}
}

// Begin snapshots the cart total, initializes a gateway transaction in
// minor units and returns the authorization the client completes payment
// with. The cart is left untouched until the payment is verified.
func (o *Orchestrator) Begin(ctx context.Context, email string) (*Authorization, error) {
	if o.engine.ItemCount() == 0 {
		return nil, ErrEmptyCart
	}

	total := o.engine.Total()
	currency := o.engine.State().Currency
	reference := fmt.Sprintf("JSN-%d-%s", o.now().Unix(), strings.ToUpper(uuid.New().String()[:4]))

	auth, err := o.gateway.Initialize(ctx, ChargeRequest{
		Reference:   reference,
		AmountMinor: int64(math.Round(total * 100)),
		Currency:    currency,
		Email:       email,
	})
	if err != nil {
		o.logger.Error("payment initialization failed", zap.String("reference", reference), zap.Error(err))
		return nil, err
	}

	o.mu.Lock()
	o.pending[reference] = pendingCheckout{
		total:     total,
		currency:  currency,
		email:     email,
		startedAt: o.now(),
	}
	o.mu.Unlock()

	o.logger.Info("checkout started",
		zap.String("reference", reference),
		zap.Float64("total", total),
		zap.String("currency", currency))
	return auth, nil
}

// Complete verifies the payment with the gateway; on success it clears
// the cart and publishes the order-completed event. An unverified payment
// leaves the cart untouched so the customer can retry.
func (o *Orchestrator) Complete(ctx context.Context, reference string) error {
	o.mu.Lock()
	p, ok := o.pending[reference]
	o.mu.Unlock()
	if !ok {
		return ErrUnknownReference
	}

	paid, err := o.gateway.Verify(ctx, reference)
	if err != nil {
		return fmt.Errorf("payment verification failed: %w", err)
	}
	if !paid {
		return ErrPaymentNotConfirmed
	}

	items := o.engine.State().Items
	o.engine.Clear(ctx)

	o.mu.Lock()
	delete(o.pending, reference)
	o.mu.Unlock()

	event := OrderCompletedEvent{
		Reference:   reference,
		Email:       p.email,
		Items:       items,
		TotalAmount: p.total,
		Currency:    p.currency,
		CompletedAt: o.now().UTC(),
	}
	if errPub := o.publisher.PublishOrderCompleted(ctx, event); errPub != nil {
		// The order already went through; losing the event must not fail
		// the customer's checkout.
		o.logger.Error("failed to publish order-completed event",
			zap.String("reference", reference), zap.Error(errPub))
	}

	o.logger.Info("checkout completed", zap.String("reference", reference))
	return nil
}
