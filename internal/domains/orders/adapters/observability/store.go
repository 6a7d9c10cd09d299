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

	orderapp "github.com/Apurer/counter-panel/internal/domains/orders/application"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	orderports "github.com/Apurer/counter-panel/internal/domains/orders/ports"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

const tracerName = "github.com/Apurer/counter-panel/internal/domains/orders/adapters/observability/store"

// Store decorates the order store with tracing, logging, and metrics. It is
// the sink where load failures are recorded.
type Store struct {
	inner   orderports.Store
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

// New wraps the core order store.
func New(inner orderports.Store, opts ...Option) orderports.Store {
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
	ctx, span := s.tracer.Start(ctx, "OrderStore.Load")
	defer span.End()

	if err := s.inner.Load(ctx); err != nil {
		s.metrics.recordLoad(ctx, false)
		return s.handleError(ctx, span, err, "failed to refresh orders, keeping previous working set")
	}
	s.metrics.recordLoad(ctx, true)
	snapshot := s.inner.Snapshot()
	span.SetAttributes(attribute.Int("orders.visible", len(snapshot.Items)), attribute.Int64("orders.revision", int64(snapshot.Metadata.Revision)))
	s.log(ctx, slog.LevelDebug, "orders refreshed", slog.Int("orders.visible", len(snapshot.Items)))
	return nil
}

func (s *Store) ChangeStatus(ctx context.Context, id ident.ID, status orderdomain.Status) error {
	ctx, span := s.tracer.Start(ctx, "OrderStore.ChangeStatus",
		trace.WithAttributes(attribute.String("order.id", id.String()), attribute.String("order.status", string(status))))
	defer span.End()

	s.log(ctx, slog.LevelInfo, "changing order status", slog.String("order.id", id.String()), slog.String("status", string(status)))
	err := s.inner.ChangeStatus(ctx, id, status)
	s.recordWrite(ctx, span, status, err)
	if err != nil {
		return s.handleError(ctx, span, err, "failed to change order status", slog.String("order.id", id.String()), slog.String("status", string(status)))
	}
	s.log(ctx, slog.LevelInfo, "order status changed", slog.String("order.id", id.String()), slog.String("status", string(status)))
	return nil
}

func (s *Store) Advance(ctx context.Context, id ident.ID) (orderdomain.Status, error) {
	ctx, span := s.tracer.Start(ctx, "OrderStore.Advance", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	next, err := s.inner.Advance(ctx, id)
	s.recordWrite(ctx, span, next, err)
	if err != nil {
		return next, s.handleError(ctx, span, err, "failed to advance order", slog.String("order.id", id.String()))
	}
	span.SetAttributes(attribute.String("order.status", string(next)))
	s.log(ctx, slog.LevelInfo, "order advanced", slog.String("order.id", id.String()), slog.String("status", string(next)))
	return next, nil
}

// recordWrite counts an accepted status write and the reload that follows it.
// A write the remote store refused triggers no reload.
func (s *Store) recordWrite(ctx context.Context, span trace.Span, status orderdomain.Status, err error) {
	reconcileFailed := errors.Is(err, orderapp.ErrReconcile)
	if err != nil && !reconcileFailed {
		return
	}
	s.metrics.recordStatusChange(ctx, status)
	s.metrics.recordLoad(ctx, !reconcileFailed)
	span.AddEvent("orders reloaded", trace.WithAttributes(attribute.Bool("reload.ok", !reconcileFailed)))
}

func (s *Store) Orders() []orderdomain.Order { return s.inner.Orders() }

func (s *Store) Snapshot() orderports.Snapshot { return s.inner.Snapshot() }

func (s *Store) Lanes() []orderdomain.Lane { return s.inner.Lanes() }

func (s *Store) Subscribe(listener orderports.Listener) func() { return s.inner.Subscribe(listener) }

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
	loads         metric.Int64Counter
	loadFailures  metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newStoreMetrics(m metric.Meter) storeMetrics {
	if m == nil {
		return storeMetrics{}
	}
	loads, _ := m.Int64Counter("orders.store.loads", metric.WithDescription("Number of successful order refreshes"))
	loadFailures, _ := m.Int64Counter("orders.store.load_failures", metric.WithDescription("Number of failed order refreshes"))
	statusChanges, _ := m.Int64Counter("orders.store.status_changes", metric.WithDescription("Number of accepted order status changes"))
	return storeMetrics{loads: loads, loadFailures: loadFailures, statusChanges: statusChanges}
}

func (m storeMetrics) recordLoad(ctx context.Context, ok bool) {
	if ok && m.loads != nil {
		m.loads.Add(ctx, 1)
	}
	if !ok && m.loadFailures != nil {
		m.loadFailures.Add(ctx, 1)
	}
}

func (m storeMetrics) recordStatusChange(ctx context.Context, status orderdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ orderports.Store = (*Store)(nil)
