package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

// Filter narrows List results. Zero values mean "no filter".
type Filter struct {
	Category string
	Search   string
	Featured *bool
	Limit    int
	Offset   int
}

// Repository defines the catalog read operations. Consumers define this
// interface, not the Postgres implementation.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
