package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu         sync.Mutex
	deliveries []map[string]float64
	fallbacks  []bool
}

func (s *recordingSink) RefreshExchangeRates(_ context.Context, rates map[string]float64, fromFallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, rates)
	s.fallbacks = append(s.fallbacks, fromFallback)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deliveries)
}

func TestRefresherDeliversImmediatelyThenOnTicks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"USD":0.00067}}`))
	}))
	defer srv.Close()

	sink := &recordingSink{}
	refresher := NewRefresher(newTestClient(srv.URL), sink, 20*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		refresher.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sink.count() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop on context cancel")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, 0.00067, sink.deliveries[0]["USD"])
	assert.False(t, sink.fallbacks[0])
}

func TestRefresherDeliversFallbackWhenServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sink := &recordingSink{}
	refresher := NewRefresher(newTestClient(srv.URL), sink, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go refresher.Run(ctx)

	require.Eventually(t, func() bool { return sink.count() >= 1 }, 2*time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.True(t, sink.fallbacks[0])
	assert.Equal(t, 1.0, sink.deliveries[0]["NGN"])
}
