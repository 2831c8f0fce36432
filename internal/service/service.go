// Package service is the controller that owns the single in-memory DBState.
// Every mutation runs under one lock as apply-then-persist: the pure
// operation builds the next snapshot, the snapshot store writes it, and only
// then does the in-memory image advance. Readers therefore observe either
// the pre-commit or the fully committed state, never a partial one, and a
// failed save leaves the prior committed state authoritative.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"dukanpos/internal/auth"
	"dukanpos/internal/catalog"
	"dukanpos/internal/domain"
	"dukanpos/internal/ledger"
	"dukanpos/internal/report"
	"dukanpos/internal/snapshot"
)

type Service struct {
	mu    sync.RWMutex
	state domain.DBState
	store snapshot.Store
	auth  *auth.Manager
	log   zerolog.Logger
}

// New loads (or seeds) the persisted state and wraps it in a controller.
func New(ctx context.Context, store snapshot.Store, authManager *auth.Manager, log zerolog.Logger) (*Service, error) {
	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	return &Service{
		state: state,
		store: store,
		auth:  authManager,
		log:   log,
	}, nil
}

// State returns a deep copy of the current committed state for reading.
func (s *Service) State() domain.DBState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Service) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// Login checks credentials against settings and mints a session token.
func (s *Service) Login(req domain.LoginRequest) (domain.LoginResponse, error) {
	s.mu.RLock()
	settings := s.state.Settings
	s.mu.RUnlock()

	resp, err := s.auth.Login(settings, req)
	if err != nil {
		s.log.Warn().Str("username", req.Username).Msg("login rejected")
		return domain.LoginResponse{}, err
	}
	s.log.Info().Str("username", resp.Username).Msg("login")
	return resp, nil
}

func (s *Service) ParseToken(token string) (domain.Actor, error) {
	return s.auth.ParseToken(token)
}

func (s *Service) UpsertItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, saved, err := catalog.UpsertItem(s.state, item)
	if err != nil {
		return domain.Item{}, err
	}
	if err := s.persist(ctx, next); err != nil {
		return domain.Item{}, err
	}
	s.log.Info().Str("item_id", saved.ID).Str("code", saved.Code).Msg("item saved")
	return saved, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, catalog.DeleteItem(s.state, id)); err != nil {
		return err
	}
	s.log.Info().Str("item_id", id).Msg("item deleted")
	return nil
}

func (s *Service) LowStockItems() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.LowStockItems(s.state)
}

func (s *Service) SearchItems(query string) []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.SearchItems(s.state, query)
}

func (s *Service) UpsertStore(ctx context.Context, store domain.Store) (domain.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, saved, err := catalog.UpsertStore(s.state, store)
	if err != nil {
		return domain.Store{}, err
	}
	if err := s.persist(ctx, next); err != nil {
		return domain.Store{}, err
	}
	s.log.Info().Str("store_id", saved.ID).Msg("store saved")
	return saved, nil
}

func (s *Service) DeleteStore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, catalog.DeleteStore(s.state, id)); err != nil {
		return err
	}
	s.log.Info().Str("store_id", id).Msg("store deleted")
	return nil
}

func (s *Service) ItemCountByStore() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.ItemCountByStore(s.state)
}

func (s *Service) SaveCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, saved, err := ledger.SaveCustomer(s.state, customer)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := s.persist(ctx, next); err != nil {
		return domain.Customer{}, err
	}
	s.log.Info().Str("customer_id", saved.ID).Msg("customer saved")
	return saved, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, ledger.DeleteCustomer(s.state, id)); err != nil {
		return err
	}
	s.log.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

// CommitSale runs the whole transaction lifecycle under the state lock:
// validate, build the sale, apply inventory and balance effects, persist.
func (s *Service) CommitSale(ctx context.Context, cart ledger.Cart, paymentMethod string, paid decimal.Decimal, customerID string) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, next, err := ledger.CommitSale(s.state, cart, paymentMethod, paid, customerID)
	if err != nil {
		return domain.Sale{}, err
	}
	if err := s.persist(ctx, next); err != nil {
		return domain.Sale{}, err
	}

	s.log.Info().
		Str("sale_id", sale.ID).
		Str("payment", sale.PaymentMethod).
		Str("total", sale.Total.String()).
		Int("lines", len(sale.Items)).
		Msg("sale committed")
	return sale, nil
}

func (s *Service) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	if settings.Username == "" {
		return domain.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Settings = settings
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.log.Info().Msg("settings updated")
	return nil
}

func (s *Service) Report(from, to time.Time) domain.SalesReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.Summarize(s.state, from, to)
}

// Backup exports the current committed state as a backup blob.
func (s *Service) Backup() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot.Export(s.state)
}

// Restore replaces the whole state with the imported blob, in memory and in
// the snapshot store. A malformed blob fails with ErrMalformedSnapshot and
// leaves both untouched; there is no merge.
func (s *Service) Restore(ctx context.Context, blob []byte) error {
	state, err := snapshot.Import(blob)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, state); err != nil {
		return err
	}
	s.log.Info().
		Int("items", len(state.Items)).
		Int("sales", len(state.Sales)).
		Msg("snapshot restored")
	return nil
}

// persist writes the next snapshot and, only on success, advances the
// in-memory image. Callers must hold the write lock.
func (s *Service) persist(ctx context.Context, next domain.DBState) error {
	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	s.state = next
	return nil
}
