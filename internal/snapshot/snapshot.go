// Package snapshot defines the persistence contract for the whole-state
// database snapshot. Backends store exactly one serialized DBState under one
// fixed logical key; every save is a full overwrite.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"dukanpos/internal/domain"
)

// Key is the single logical slot every backend persists the state under.
const Key = "dukanpos:snapshot"

type Store interface {
	// Load returns the persisted state, or a seeded default if none exists.
	Load(ctx context.Context) (domain.DBState, error)
	// Save replaces the entire persisted state. Implementations serialize
	// concurrent saves; partial writes must never be observable.
	Save(ctx context.Context, state domain.DBState) error
	Close() error
}

// DefaultState seeds a first-run database: one default store, empty
// collections, and settings with working credentials so the application
// stays reachable before any configuration happens.
func DefaultState() domain.DBState {
	return Normalize(domain.DBState{
		Stores: []domain.Store{{ID: "store-default", Name: "Main Store"}},
		Settings: domain.Settings{
			CompanyName: "Dukan POS",
			Currency:    "EGP",
			Username:    "admin",
			Password:    "admin123",
		},
	})
}

// Normalize replaces nil collections with empty ones so that persisted
// snapshots and freshly imported ones compare and encode identically.
func Normalize(state domain.DBState) domain.DBState {
	if state.Items == nil {
		state.Items = []domain.Item{}
	}
	if state.Customers == nil {
		state.Customers = []domain.Customer{}
	}
	if state.Stores == nil {
		state.Stores = []domain.Store{}
	}
	if state.Sales == nil {
		state.Sales = []domain.Sale{}
	}
	return state
}

// Export encodes the state as indented JSON, the backup file format. It is a
// complete, losslessly round-trippable encoding of DBState.
func Export(state domain.DBState) ([]byte, error) {
	data, err := json.MarshalIndent(Normalize(state), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

var requiredKeys = []string{"items", "customers", "stores", "sales", "settings"}

// Import decodes a backup blob. A blob that does not parse into a
// structurally valid DBState (not a JSON object, or missing any required
// top-level key) fails with domain.ErrMalformedSnapshot; callers keep their
// current state in that case.
func Import(blob []byte) (domain.DBState, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return domain.DBState{}, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return domain.DBState{}, fmt.Errorf("%w: missing %q", domain.ErrMalformedSnapshot, key)
		}
	}

	var state domain.DBState
	if err := json.Unmarshal(blob, &state); err != nil {
		return domain.DBState{}, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	return Normalize(state), nil
}
