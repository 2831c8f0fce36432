// Package catalog holds the item and store operations. Every operation takes
// the current DBState and returns a new one; callers persist the result.
package catalog

import (
	"strings"

	"dukanpos/internal/domain"
	"dukanpos/internal/xid"
)

// UpsertItem inserts the item when its id is empty, otherwise replaces the
// record with that id (appending when no such record exists). Code and name
// are required; a validation failure mutates nothing.
func UpsertItem(state domain.DBState, item domain.Item) (domain.DBState, domain.Item, error) {
	item.Code = strings.TrimSpace(item.Code)
	item.Name = strings.TrimSpace(item.Name)
	if item.Code == "" || item.Name == "" {
		return state, domain.Item{}, domain.ErrValidation
	}

	next := state.Clone()
	if item.ID == "" {
		item.ID = xid.New("item")
		next.Items = append(next.Items, item)
		return next, item, nil
	}

	for i, existing := range next.Items {
		if existing.ID == item.ID {
			next.Items[i] = item
			return next, item, nil
		}
	}
	next.Items = append(next.Items, item)
	return next, item, nil
}

// DeleteItem removes the item by id; deleting an absent id is a no-op.
// Historical sales keep their own name and price snapshots and stay valid.
func DeleteItem(state domain.DBState, id string) domain.DBState {
	next := state.Clone()
	items := next.Items[:0]
	for _, item := range next.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	next.Items = items
	return next
}

// LowStockItems returns every item at or below its low-stock threshold,
// recomputed on each call.
func LowStockItems(state domain.DBState) []domain.Item {
	alerts := make([]domain.Item, 0)
	for _, item := range state.Items {
		if item.LowStock() {
			alerts = append(alerts, item)
		}
	}
	return alerts
}

// SearchItems matches the query case-insensitively against item code and
// name. An empty query matches nothing.
func SearchItems(state domain.DBState, query string) []domain.Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []domain.Item{}
	}

	matches := make([]domain.Item, 0)
	for _, item := range state.Items {
		if strings.Contains(strings.ToLower(item.Code), query) || strings.Contains(strings.ToLower(item.Name), query) {
			matches = append(matches, item)
		}
	}
	return matches
}

// UpsertStore creates or replaces a store by id. Name is required.
func UpsertStore(state domain.DBState, store domain.Store) (domain.DBState, domain.Store, error) {
	store.Name = strings.TrimSpace(store.Name)
	if store.Name == "" {
		return state, domain.Store{}, domain.ErrValidation
	}

	next := state.Clone()
	if store.ID == "" {
		store.ID = xid.New("store")
		next.Stores = append(next.Stores, store)
		return next, store, nil
	}

	for i, existing := range next.Stores {
		if existing.ID == store.ID {
			next.Stores[i] = store
			return next, store, nil
		}
	}
	next.Stores = append(next.Stores, store)
	return next, store, nil
}

// DeleteStore removes a store by id. Items referencing it keep their storeId;
// lookups for the dangling id simply fail and callers render "unknown".
func DeleteStore(state domain.DBState, id string) domain.DBState {
	next := state.Clone()
	stores := next.Stores[:0]
	for _, store := range next.Stores {
		if store.ID != id {
			stores = append(stores, store)
		}
	}
	next.Stores = stores
	return next
}

// ItemCountByStore tallies items per storeId, including dangling ids.
func ItemCountByStore(state domain.DBState) map[string]int {
	counts := make(map[string]int, len(state.Stores))
	for _, item := range state.Items {
		counts[item.StoreID]++
	}
	return counts
}
