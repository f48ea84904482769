package store

import (
	"context"
	"errors"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// DefaultKey is the fixed storage key carts were historically saved under.
const DefaultKey = "cartState"

// CartStore persists the serialized cart snapshot under a fixed key.
// Stores do no validation; malformed data surfaces as ErrSnapshotNotFound
// and the caller falls back to an empty cart.
type CartStore interface {
	Load(ctx context.Context) (*domain.CartSnapshot, error)
	Save(ctx context.Context, snap domain.CartSnapshot) error
}

var ErrSnapshotNotFound = errors.New("cart snapshot not found")
