package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/domains/orders/ports"
	"github.com/Apurer/counter-panel/internal/shared/ident"
	"github.com/Apurer/counter-panel/internal/shared/projection"
)

// Store holds the panel's working set of non-delivered orders and mediates
// status changes. Every mutation is reconciled through a full reload; the
// working set is never edited in place.
type Store struct {
	remote ports.Remote
	now    func() time.Time

	// publishMu serialises replace+notify so listeners see snapshots in the
	// order they were stored.
	publishMu sync.Mutex
	mu        sync.RWMutex
	working   ports.Snapshot
	listeners projection.Broadcaster[domain.Order]
}

// Option configures the store.
type Option func(*Store)

// WithClock overrides the time source used for snapshot metadata.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore wires the order store with its remote collaborator.
func NewStore(remote ports.Remote, opts ...Option) *Store {
	s := &Store{remote: remote, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load replaces the working set with the non-terminal orders the remote store
// returns, in server order. On failure the working set is kept as it was.
func (s *Store) Load(ctx context.Context) error {
	orders, err := s.remote.ListOrders(ctx)

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if err != nil {
		s.working.Fail(err, s.now())
	} else {
		visible := make([]domain.Order, 0, len(orders))
		for _, order := range orders {
			if order.Visible() {
				visible = append(visible, order.Clone())
			}
		}
		s.working.Replace(visible, s.now())
	}
	snapshot := s.working.Clone(domain.Order.Clone)
	s.mu.Unlock()

	s.listeners.Publish(snapshot)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	return nil
}

// ChangeStatus sends the requested status and, once the remote store accepts
// it, reloads. A regression of an order held in the working set is refused
// without contacting the remote store.
func (s *Store) ChangeStatus(ctx context.Context, id ident.ID, status domain.Status) error {
	if id.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ident.ErrEmpty)
	}
	if !status.Valid() {
		return mapError(fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status))
	}
	if current, ok := s.find(id); ok {
		if err := current.CanTransitionTo(status); err != nil {
			return mapError(err)
		}
	}
	if err := s.remote.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("change status of order %s: %w", id, err)
	}
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReconcile, err)
	}
	return nil
}

// Advance moves a known order to the next status of the lifecycle. The new
// status is returned with ErrReconcile when only the reload failed.
func (s *Store) Advance(ctx context.Context, id ident.ID) (domain.Status, error) {
	current, ok := s.find(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOrder, id)
	}
	next, ok := current.Status.Next()
	if !ok {
		return "", mapError(fmt.Errorf("%w: %s is terminal", domain.ErrInvalidTransition, current.Status))
	}
	if err := s.ChangeStatus(ctx, id, next); err != nil {
		if errors.Is(err, ErrReconcile) {
			return next, err
		}
		return "", err
	}
	return next, nil
}

// Orders returns a copy of the working set.
func (s *Store) Orders() []domain.Order {
	return s.Snapshot().Items
}

// Snapshot returns a copy of the working set with its metadata.
func (s *Store) Snapshot() ports.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working.Clone(domain.Order.Clone)
}

// Lanes groups the working set by displayed status.
func (s *Store) Lanes() []domain.Lane {
	return domain.GroupByLane(s.Orders())
}

// Subscribe registers a listener for every stored snapshot.
func (s *Store) Subscribe(listener ports.Listener) func() {
	return s.listeners.Subscribe(listener)
}

func (s *Store) find(id ident.ID) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.working.Items {
		if order.ID == id {
			return order.Clone(), true
		}
	}
	return domain.Order{}, false
}

var _ ports.Store = (*Store)(nil)
