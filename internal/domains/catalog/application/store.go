package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	"github.com/Apurer/counter-panel/internal/domains/catalog/ports"
	"github.com/Apurer/counter-panel/internal/shared/ident"
	"github.com/Apurer/counter-panel/internal/shared/projection"
)

// Store holds the panel's working set of products. Remote mutations are
// reconciled through a full reload.
type Store struct {
	remote       ports.Remote
	confirmer    ports.Confirmer
	writeThrough bool
	now          func() time.Time

	publishMu sync.Mutex
	mu        sync.RWMutex
	working   ports.Snapshot
	draft     *domain.Draft
	listeners projection.Broadcaster[domain.Product]
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

// WithConfirmer sets who approves deletions. Without one every deletion is declined.
func WithConfirmer(c ports.Confirmer) Option {
	return func(s *Store) {
		s.confirmer = c
	}
}

// WithAvailabilityWriteThrough sends availability toggles to the remote store
// instead of flipping them locally.
func WithAvailabilityWriteThrough(enabled bool) Option {
	return func(s *Store) {
		s.writeThrough = enabled
	}
}

// NewStore wires the catalog store with its remote collaborator.
func NewStore(remote ports.Remote, opts ...Option) *Store {
	s := &Store{remote: remote, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load replaces the working set with the remote collection in server order.
// On failure the working set is kept as it was.
func (s *Store) Load(ctx context.Context) error {
	products, err := s.remote.ListProducts(ctx)

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if err != nil {
		s.working.Fail(err, s.now())
	} else {
		s.working.Replace(append([]domain.Product(nil), products...), s.now())
	}
	snapshot := s.working.Clone(nil)
	s.mu.Unlock()

	s.listeners.Publish(snapshot)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	return nil
}

// Create forwards the draft as is; the remote store validates it. A refused
// draft is kept for retry until a later Create succeeds or it is discarded.
func (s *Store) Create(ctx context.Context, draft domain.Draft) (domain.Product, error) {
	created, err := s.remote.CreateProduct(ctx, draft)

	s.mu.Lock()
	if err != nil {
		kept := draft
		s.draft = &kept
	} else {
		s.draft = nil
	}
	s.mu.Unlock()

	if err != nil {
		return domain.Product{}, fmt.Errorf("create product %q: %w", draft.Name, err)
	}
	if err := s.Load(ctx); err != nil {
		return created, fmt.Errorf("%w: %w", ErrReconcile, err)
	}
	return created, nil
}

// PendingDraft returns the last refused draft.
func (s *Store) PendingDraft() (domain.Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft == nil {
		return domain.Draft{}, false
	}
	return *s.draft, true
}

// DiscardDraft forgets the pending draft.
func (s *Store) DiscardDraft() {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
}

// Delete removes a product once the operator confirms. A declined or failed
// confirmation never reaches the remote store.
func (s *Store) Delete(ctx context.Context, id ident.ID) error {
	if id.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ident.ErrEmpty)
	}
	product, ok := s.find(id)
	if !ok {
		product = domain.Product{ID: id}
	}
	if s.confirmer == nil {
		return ErrNotConfirmed
	}
	confirmed, err := s.confirmer.ConfirmDelete(ctx, product)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotConfirmed, err)
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := s.remote.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReconcile, err)
	}
	return nil
}

// ToggleAvailability flips a known product's availability. Locally by default;
// in write-through mode the remote store is updated and the catalog reloaded.
func (s *Store) ToggleAvailability(ctx context.Context, id ident.ID) (bool, error) {
	if s.writeThrough {
		return s.toggleRemote(ctx, id)
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	s.working.Items[idx].Available = !s.working.Items[idx].Available
	available := s.working.Items[idx].Available
	snapshot := s.working.Clone(nil)
	s.mu.Unlock()

	s.listeners.Publish(snapshot)
	return available, nil
}

func (s *Store) toggleRemote(ctx context.Context, id ident.ID) (bool, error) {
	product, ok := s.find(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	available := !product.Available
	if err := s.remote.SetAvailability(ctx, id, available); err != nil {
		return product.Available, fmt.Errorf("set availability of product %s: %w", id, err)
	}
	if err := s.Load(ctx); err != nil {
		return available, fmt.Errorf("%w: %w", ErrReconcile, err)
	}
	return available, nil
}

// Filter projects the working set onto a category. CategoryAll selects everything.
func (s *Store) Filter(category domain.Category) []domain.Product {
	return domain.Filter(s.Products(), category)
}

// Products returns a copy of the working set.
func (s *Store) Products() []domain.Product {
	return s.Snapshot().Items
}

// Snapshot returns a copy of the working set with its metadata.
func (s *Store) Snapshot() ports.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working.Clone(nil)
}

// Subscribe registers a listener for every stored snapshot.
func (s *Store) Subscribe(listener ports.Listener) func() {
	return s.listeners.Subscribe(listener)
}

func (s *Store) find(id ident.ID) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.working.Items[idx], true
	}
	return domain.Product{}, false
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id ident.ID) int {
	for i, p := range s.working.Items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

var _ ports.Store = (*Store)(nil)
