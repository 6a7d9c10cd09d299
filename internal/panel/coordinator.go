// Package panel coordinates the order and catalog stores for an interactive
// surface: it forwards operator intents, renders on every store change and
// reports failures as operator notices.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	catalogapp "github.com/Apurer/counter-panel/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/counter-panel/internal/domains/catalog/ports"
	orderapp "github.com/Apurer/counter-panel/internal/domains/orders/application"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	orderports "github.com/Apurer/counter-panel/internal/domains/orders/ports"
	"github.com/Apurer/counter-panel/internal/polling"
	"github.com/Apurer/counter-panel/internal/shared/ident"
	"github.com/Apurer/counter-panel/internal/shared/notify"
)

var (
	ErrUnknownTab     = errors.New("unknown tab")
	ErrNoPendingDraft = errors.New("no product draft to retry")
)

// Coordinator owns the panel's activation lifecycle and UI state.
type Coordinator struct {
	orders   orderports.Store
	catalog  catalogports.Store
	poller   *polling.Controller
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.RWMutex
	tab      Tab
	category catalogdomain.Category
	active   bool
	unsubs   []func()

	renderMu  sync.Mutex
	nextID    int
	renderers map[int]func(View)
}

type Option func(*coordinatorConfig)

type coordinatorConfig struct {
	notifier      notify.Notifier
	logger        *slog.Logger
	tab           Tab
	interval      time.Duration
	onlyOrdersTab bool
	pollOpts      []polling.Option
}

// WithNotifier sets where operator notices go. Defaults to notify.Discard.
func WithNotifier(n notify.Notifier) Option {
	return func(c *coordinatorConfig) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *coordinatorConfig) {
		c.logger = logger
	}
}

// WithInitialTab selects the tab shown after activation.
func WithInitialTab(tab Tab) Option {
	return func(c *coordinatorConfig) {
		c.tab = tab
	}
}

// WithPolling configures the order refresh cadence. When onlyOrdersTab is set
// a tick refreshes only while the orders tab is selected.
func WithPolling(interval time.Duration, onlyOrdersTab bool, opts ...polling.Option) Option {
	return func(c *coordinatorConfig) {
		c.interval = interval
		c.onlyOrdersTab = onlyOrdersTab
		c.pollOpts = append(c.pollOpts, opts...)
	}
}

// New wires a coordinator over both stores.
func New(orders orderports.Store, catalog catalogports.Store, opts ...Option) (*Coordinator, error) {
	if orders == nil || catalog == nil {
		return nil, errors.New("panel requires both stores")
	}
	cfg := coordinatorConfig{
		notifier: notify.Discard,
		tab:      TabOrders,
		interval: polling.DefaultInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	c := &Coordinator{
		orders:    orders,
		catalog:   catalog,
		notifier:  cfg.notifier,
		logger:    cfg.logger,
		tab:       cfg.tab,
		category:  catalogdomain.CategoryAll,
		renderers: map[int]func(View){},
	}
	pollOpts := append([]polling.Option{polling.WithLogger(cfg.logger)}, cfg.pollOpts...)
	if cfg.onlyOrdersTab {
		pollOpts = append(pollOpts, polling.WithGate(c.OrdersTabSelected))
	}
	poller, err := polling.New(orders, cfg.interval, pollOpts...)
	if err != nil {
		return nil, fmt.Errorf("configure polling: %w", err)
	}
	c.poller = poller
	return c, nil
}

// Activate subscribes to both stores, loads them once and starts polling.
// Load failures are reported as notices; the panel stays usable.
func (c *Coordinator) Activate(ctx context.Context) {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.active = true
	c.unsubs = []func(){
		c.orders.Subscribe(func(orderports.Snapshot) { c.render() }),
		c.catalog.Subscribe(func(catalogports.Snapshot) { c.render() }),
	}
	c.mu.Unlock()

	c.Refresh(ctx)
	c.poller.Start(ctx)
	c.log(ctx, slog.LevelInfo, "panel activated")
}

// Deactivate stops polling and detaches from the stores. No refresh runs
// after it returns.
func (c *Coordinator) Deactivate() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()

	c.poller.Stop()
	for _, unsub := range unsubs {
		unsub()
	}
	c.log(context.Background(), slog.LevelInfo, "panel deactivated")
}

// Refresh reloads both stores on demand.
func (c *Coordinator) Refresh(ctx context.Context) {
	if err := c.orders.Load(ctx); err != nil {
		c.fail(ctx, "refresh orders", "Impossibile aggiornare gli ordini", err)
	}
	if err := c.catalog.Load(ctx); err != nil {
		c.fail(ctx, "refresh catalog", "Impossibile aggiornare il catalogo", err)
	}
}

// SelectTab switches the visible section.
func (c *Coordinator) SelectTab(tab Tab) error {
	if tab != TabOrders && tab != TabCatalog {
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	c.mu.Lock()
	c.tab = tab
	c.mu.Unlock()
	c.render()
	return nil
}

// OrdersTabSelected is the polling gate used when refreshes follow the orders tab.
func (c *Coordinator) OrdersTabSelected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tab == TabOrders
}

// SelectCategory changes the catalog filter. It never reaches the remote store.
func (c *Coordinator) SelectCategory(category catalogdomain.Category) error {
	if !category.IsAll() && !category.Valid() {
		return fmt.Errorf("%w: %q", catalogdomain.ErrInvalidCategory, category)
	}
	c.mu.Lock()
	c.category = category
	c.mu.Unlock()
	c.render()
	return nil
}

// ChangeStatus forwards an explicit status change.
func (c *Coordinator) ChangeStatus(ctx context.Context, id ident.ID, status orderdomain.Status) error {
	err := c.orders.ChangeStatus(ctx, id, status)
	switch {
	case errors.Is(err, orderapp.ErrReconcile):
		return c.fail(ctx, "change status", fmt.Sprintf("Ordine %s: %s, ordini non aggiornati", id, status.Label()), err)
	case err != nil:
		return c.fail(ctx, "change status", fmt.Sprintf("Ordine %s: stato non aggiornato", id), err)
	}
	c.inform(ctx, "change status", fmt.Sprintf("Ordine %s: %s", id, status.Label()))
	return nil
}

// Advance moves an order to the next lifecycle step.
func (c *Coordinator) Advance(ctx context.Context, id ident.ID) (orderdomain.Status, error) {
	next, err := c.orders.Advance(ctx, id)
	switch {
	case errors.Is(err, orderapp.ErrReconcile):
		return next, c.fail(ctx, "advance order", fmt.Sprintf("Ordine %s: %s, ordini non aggiornati", id, next.Label()), err)
	case err != nil:
		return "", c.fail(ctx, "advance order", fmt.Sprintf("Ordine %s: stato non aggiornato", id), err)
	}
	c.inform(ctx, "advance order", fmt.Sprintf("Ordine %s: %s", id, next.Label()))
	return next, nil
}

// SaveProduct sends a new product to the remote store. A refused draft stays
// pending for RetryDraft.
func (c *Coordinator) SaveProduct(ctx context.Context, draft catalogdomain.Draft) (catalogdomain.Product, error) {
	product, err := c.catalog.Create(ctx, draft)
	if err != nil && !errors.Is(err, catalogapp.ErrReconcile) {
		c.render()
		return product, c.fail(ctx, "save product", fmt.Sprintf("Prodotto %q non salvato", draft.Name), err)
	}
	if err != nil {
		c.fail(ctx, "save product", fmt.Sprintf("Prodotto %q salvato, catalogo non aggiornato", draft.Name), err)
		return product, err
	}
	c.inform(ctx, "save product", fmt.Sprintf("Prodotto %q salvato", product.Name))
	return product, nil
}

// RetryDraft resubmits the last refused draft.
func (c *Coordinator) RetryDraft(ctx context.Context) (catalogdomain.Product, error) {
	draft, ok := c.catalog.PendingDraft()
	if !ok {
		return catalogdomain.Product{}, ErrNoPendingDraft
	}
	return c.SaveProduct(ctx, draft)
}

// DiscardDraft drops the pending draft.
func (c *Coordinator) DiscardDraft() {
	c.catalog.DiscardDraft()
	c.render()
}

// DeleteProduct removes a product after the store's confirmer approves.
func (c *Coordinator) DeleteProduct(ctx context.Context, id ident.ID) error {
	err := c.catalog.Delete(ctx, id)
	switch {
	case errors.Is(err, catalogapp.ErrNotConfirmed):
		c.inform(ctx, "delete product", fmt.Sprintf("Eliminazione del prodotto %s annullata", id))
		return err
	case err != nil:
		return c.fail(ctx, "delete product", fmt.Sprintf("Prodotto %s non eliminato", id), err)
	}
	c.inform(ctx, "delete product", fmt.Sprintf("Prodotto %s eliminato", id))
	return nil
}

// ToggleAvailability flips a product's availability.
func (c *Coordinator) ToggleAvailability(ctx context.Context, id ident.ID) (bool, error) {
	available, err := c.catalog.ToggleAvailability(ctx, id)
	if err != nil {
		return available, c.fail(ctx, "toggle availability", fmt.Sprintf("Prodotto %s: disponibilità non aggiornata", id), err)
	}
	return available, nil
}

// View builds the current frame.
func (c *Coordinator) View() View {
	c.mu.RLock()
	tab, category := c.tab, c.category
	c.mu.RUnlock()

	orders := c.orders.Snapshot()
	catalog := c.catalog.Snapshot()
	view := View{
		Tab:      tab,
		Category: category,
		Lanes:    orderdomain.GroupByLane(orders.Items),
		Products: catalogdomain.Filter(catalog.Items, category),
		Orders:   orders.Metadata,
		Catalog:  catalog.Metadata,
	}
	if draft, ok := c.catalog.PendingDraft(); ok {
		view.PendingDraft = &draft
	}
	return view
}

// OnChange registers fn to receive a fresh View after every store change or
// UI state change. fn runs on the goroutine that caused the change and must
// not call back into a store mutation synchronously.
func (c *Coordinator) OnChange(fn func(View)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	c.renderMu.Lock()
	id := c.nextID
	c.nextID++
	c.renderers[id] = fn
	c.renderMu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			c.renderMu.Lock()
			delete(c.renderers, id)
			c.renderMu.Unlock()
		})
	}
}

func (c *Coordinator) render() {
	c.renderMu.Lock()
	fns := make([]func(View), 0, len(c.renderers))
	for i := 0; i < c.nextID; i++ {
		if fn, ok := c.renderers[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.renderMu.Unlock()
	if len(fns) == 0 {
		return
	}
	view := c.View()
	for _, fn := range fns {
		fn(view)
	}
}

func (c *Coordinator) fail(ctx context.Context, op, message string, err error) error {
	c.notifier.Notify(ctx, notify.Notice{Level: notify.LevelError, Operation: op, Message: message, Err: err})
	return err
}

func (c *Coordinator) inform(ctx context.Context, op, message string) {
	c.notifier.Notify(ctx, notify.Notice{Level: notify.LevelInfo, Operation: op, Message: message})
}

func (c *Coordinator) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, level, msg, attrs...)
}
