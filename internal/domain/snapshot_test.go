package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	updated := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	state := CartState{
		Items: []LineItem{
			{Product: Product{ID: "p1", Name: "Widget", BasePrice: 500, BaseCurrency: "NGN"}, Quantity: 2},
		},
		VoucherDiscount: 100,
		Currency:        "USD",
		ExchangeRates:   map[string]float64{"USD": 0.00067},
		LastRateUpdate:  &updated,
	}

	restored, err := state.Snapshot().State()
	require.NoError(t, err)
	assert.Equal(t, state, restored)
}

func TestSnapshotFieldNamesAreStable(t *testing.T) {
	data, err := json.Marshal(CartState{Currency: "NGN"}.Snapshot())
	require.NoError(t, err)

	// These names are a contract with previously persisted carts.
	for _, field := range []string{"schemaVersion", "items", "voucherDiscount", "currency", "exchangeRates", "lastRateUpdate"} {
		assert.Contains(t, string(data), `"`+field+`"`)
	}
}

func TestSnapshotState(t *testing.T) {
	t.Run("legacy snapshot without version gets defaults", func(t *testing.T) {
		state, err := CartSnapshot{}.State()
		require.NoError(t, err)

		assert.NotNil(t, state.Items)
		assert.Empty(t, state.Items)
		assert.Equal(t, BaseCurrency, state.Currency)
		assert.NotNil(t, state.ExchangeRates)
	})

	t.Run("future schema rejected", func(t *testing.T) {
		_, err := CartSnapshot{SchemaVersion: SnapshotSchemaVersion + 1}.State()
		assert.Error(t, err)
	})
}
