package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCatalogRepo struct {
	mu       sync.Mutex
	products map[string]*Product
	err      error
	getCalls int
}

func (m *mockCatalogRepo) List(context.Context, Filter) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockCatalogRepo) GetByID(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (m *mockCatalogRepo) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

type mockProductCache struct {
	mu       sync.Mutex
	products map[string]*Product
	getErr   error
	sets     int
}

func (m *mockProductCache) Get(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	return p, nil
}

func (m *mockProductCache) Set(_ context.Context, id string, product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.products == nil {
		m.products = map[string]*Product{}
	}
	m.products[id] = product
	m.sets++
	return nil
}

func (m *mockProductCache) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *mockProductCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func TestServiceGet(t *testing.T) {
	ctx := context.Background()
	widget := &Product{ID: "p1", Name: "Widget", Price: 500}

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := &mockCatalogRepo{}
		cache := &mockProductCache{products: map[string]*Product{"p1": widget}}
		svc := NewService(repo, cache, nil)

		p, err := svc.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		assert.Zero(t, repo.calls())
	})

	t.Run("cache miss reads repository and backfills", func(t *testing.T) {
		repo := &mockCatalogRepo{products: map[string]*Product{"p1": widget}}
		cache := &mockProductCache{}
		svc := NewService(repo, cache, nil)

		p, err := svc.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.Equal(t, 1, repo.calls())

		// Cache set runs async
		require.Eventually(t, func() bool { return cache.setCount() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("cache failure falls through to repository", func(t *testing.T) {
		repo := &mockCatalogRepo{products: map[string]*Product{"p1": widget}}
		cache := &mockProductCache{getErr: errors.New("redis down")}
		svc := NewService(repo, cache, nil)

		p, err := svc.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := &mockCatalogRepo{}
		cache := &mockProductCache{}
		svc := NewService(repo, cache, nil)

		_, err := svc.Get(ctx, "ghost")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestServiceList(t *testing.T) {
	repo := &mockCatalogRepo{products: map[string]*Product{
		"p1": {ID: "p1", Name: "Widget", Price: 500},
		"p2": {ID: "p2", Name: "Gadget", Price: 1000},
	}}
	svc := NewService(repo, &mockProductCache{}, nil)

	products, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
