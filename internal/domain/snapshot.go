package domain

import (
	"fmt"
	"time"
)

// SnapshotSchemaVersion is the current persisted snapshot schema. Version 0
// (the field absent) is accepted as legacy data with the same shape.
const SnapshotSchemaVersion = 1

// CartSnapshot is the persisted form of CartState. The JSON field names are
// a stable contract with previously stored carts and must round-trip
// exactly: save(load()) is idempotent.
type CartSnapshot struct {
	SchemaVersion   int                `json:"schemaVersion"`
	Items           []LineItem         `json:"items"`
	VoucherDiscount float64            `json:"voucherDiscount"`
	Currency        string             `json:"currency"`
	ExchangeRates   map[string]float64 `json:"exchangeRates"`
	LastRateUpdate  *time.Time         `json:"lastRateUpdate"`
}

// Snapshot converts the state into its persisted form.
func (s CartState) Snapshot() CartSnapshot {
	return CartSnapshot{
		SchemaVersion:   SnapshotSchemaVersion,
		Items:           s.Items,
		VoucherDiscount: s.VoucherDiscount,
		Currency:        s.Currency,
		ExchangeRates:   s.ExchangeRates,
		LastRateUpdate:  s.LastRateUpdate,
	}
}

// State validates the snapshot and rebuilds the in-memory state, filling
// defaults for fields older snapshots may lack.
func (s CartSnapshot) State() (CartState, error) {
	if s.SchemaVersion > SnapshotSchemaVersion {
		return CartState{}, fmt.Errorf("unsupported cart snapshot schema %d", s.SchemaVersion)
	}

	state := CartState{
		Items:           s.Items,
		VoucherDiscount: s.VoucherDiscount,
		Currency:        s.Currency,
		ExchangeRates:   s.ExchangeRates,
		LastRateUpdate:  s.LastRateUpdate,
	}
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	if state.Currency == "" {
		state.Currency = BaseCurrency
	}
	if state.ExchangeRates == nil {
		state.ExchangeRates = map[string]float64{}
	}
	return state, nil
}
