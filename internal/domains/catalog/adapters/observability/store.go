package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogapp "github.com/Apurer/counter-panel/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/counter-panel/internal/domains/catalog/ports"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

const tracerName = "github.com/Apurer/counter-panel/internal/domains/catalog/adapters/observability/store"

// Store decorates the catalog store with tracing, logging, and metrics.
type Store struct {
	inner   catalogports.Store
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics storeMetrics
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Store) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Store) {
		s.metrics = newStoreMetrics(m)
	}
}

// New wraps the core catalog store.
func New(inner catalogports.Store, opts ...Option) catalogports.Store {
	s := &Store{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Store) Load(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "CatalogStore.Load")
	defer span.End()

	if err := s.inner.Load(ctx); err != nil {
		s.metrics.record(ctx, s.metrics.loadFailures)
		return s.handleError(ctx, span, err, "failed to refresh catalog, keeping previous working set")
	}
	s.metrics.record(ctx, s.metrics.loads)
	count := len(s.inner.Snapshot().Items)
	span.SetAttributes(attribute.Int("catalog.products", count))
	s.log(ctx, slog.LevelDebug, "catalog refreshed", slog.Int("catalog.products", count))
	return nil
}

func (s *Store) Create(ctx context.Context, draft catalogdomain.Draft) (catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogStore.Create",
		trace.WithAttributes(attribute.String("product.name", draft.Name), attribute.String("product.category", string(draft.Category))))
	defer span.End()

	s.log(ctx, slog.LevelInfo, "creating product", slog.String("product.name", draft.Name))
	product, err := s.inner.Create(ctx, draft)
	if err != nil {
		return product, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", draft.Name))
	}
	s.metrics.record(ctx, s.metrics.created)
	span.SetAttributes(attribute.String("product.id", product.ID.String()))
	s.log(ctx, slog.LevelInfo, "product created", slog.String("product.id", product.ID.String()))
	return product, nil
}

func (s *Store) PendingDraft() (catalogdomain.Draft, bool) { return s.inner.PendingDraft() }

func (s *Store) DiscardDraft() { s.inner.DiscardDraft() }

func (s *Store) Delete(ctx context.Context, id ident.ID) error {
	ctx, span := s.tracer.Start(ctx, "CatalogStore.Delete", trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	if err := s.inner.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogapp.ErrNotConfirmed) {
			span.SetAttributes(attribute.Bool("product.delete_confirmed", false))
			s.log(ctx, slog.LevelInfo, "product deletion declined", slog.String("product.id", id.String()))
			return err
		}
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id.String()))
	}
	s.metrics.record(ctx, s.metrics.deleted)
	s.log(ctx, slog.LevelInfo, "product deleted", slog.String("product.id", id.String()))
	return nil
}

func (s *Store) ToggleAvailability(ctx context.Context, id ident.ID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogStore.ToggleAvailability", trace.WithAttributes(attribute.String("product.id", id.String())))
	defer span.End()

	available, err := s.inner.ToggleAvailability(ctx, id)
	if err != nil {
		return available, s.handleError(ctx, span, err, "failed to toggle availability", slog.String("product.id", id.String()))
	}
	s.metrics.record(ctx, s.metrics.toggles)
	span.SetAttributes(attribute.Bool("product.available", available))
	s.log(ctx, slog.LevelInfo, "availability toggled", slog.String("product.id", id.String()), slog.Bool("available", available))
	return available, nil
}

func (s *Store) Filter(category catalogdomain.Category) []catalogdomain.Product {
	return s.inner.Filter(category)
}

func (s *Store) Products() []catalogdomain.Product { return s.inner.Products() }

func (s *Store) Snapshot() catalogports.Snapshot { return s.inner.Snapshot() }

func (s *Store) Subscribe(listener catalogports.Listener) func() { return s.inner.Subscribe(listener) }

func (s *Store) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Store) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.log(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	return err
}

type storeMetrics struct {
	loads        metric.Int64Counter
	loadFailures metric.Int64Counter
	created      metric.Int64Counter
	deleted      metric.Int64Counter
	toggles      metric.Int64Counter
}

func newStoreMetrics(m metric.Meter) storeMetrics {
	if m == nil {
		return storeMetrics{}
	}
	loads, _ := m.Int64Counter("catalog.store.loads", metric.WithDescription("Number of successful catalog refreshes"))
	loadFailures, _ := m.Int64Counter("catalog.store.load_failures", metric.WithDescription("Number of failed catalog refreshes"))
	created, _ := m.Int64Counter("catalog.store.created", metric.WithDescription("Number of products created"))
	deleted, _ := m.Int64Counter("catalog.store.deleted", metric.WithDescription("Number of products deleted"))
	toggles, _ := m.Int64Counter("catalog.store.availability_toggles", metric.WithDescription("Number of availability toggles"))
	return storeMetrics{loads: loads, loadFailures: loadFailures, created: created, deleted: deleted, toggles: toggles}
}

func (m storeMetrics) record(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

var _ catalogports.Store = (*Store)(nil)
