package panel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	counterclient "github.com/Apurer/counter-panel/internal/clients/http/counter"
	catalogobs "github.com/Apurer/counter-panel/internal/domains/catalog/adapters/observability"
	catalogremote "github.com/Apurer/counter-panel/internal/domains/catalog/adapters/remote"
	catalogapp "github.com/Apurer/counter-panel/internal/domains/catalog/application"
	orderobs "github.com/Apurer/counter-panel/internal/domains/orders/adapters/observability"
	orderremote "github.com/Apurer/counter-panel/internal/domains/orders/adapters/remote"
	orderapp "github.com/Apurer/counter-panel/internal/domains/orders/application"
	panelcore "github.com/Apurer/counter-panel/internal/panel"
	platformobservability "github.com/Apurer/counter-panel/internal/platform/observability"
)

const serviceName = "counter-panel"

// Run boots the staff panel on the given terminal streams and blocks until
// the operator quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	logOutput := io.Writer(os.Stderr)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOutput = f
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName:  serviceName,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
		LogOutput:    logOutput,
		Exporter:     cfg.Exporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()

	term := NewTerminal(in, out)
	coord, err := build(cfg, instruments, term)
	if err != nil {
		return err
	}
	instruments.Logger.Info("panel connected", slog.String("api", cfg.APIURL))
	return term.Run(ctx, coord)
}

// build wires the client, both stores and the coordinator around term.
func build(cfg Config, instruments *platformobservability.Instruments, term *Terminal) (*panelcore.Coordinator, error) {
	logger := instruments.Logger
	client, err := counterclient.NewClient(cfg.APIURL, nil, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("configure counter client: %w", err)
	}

	orders := orderobs.New(
		orderapp.NewStore(orderremote.NewGateway(client)),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.domains.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.domains.orders.application")),
	)
	catalog := catalogobs.New(
		catalogapp.NewStore(
			catalogremote.NewGateway(client),
			catalogapp.WithConfirmer(term),
			catalogapp.WithAvailabilityWriteThrough(cfg.AvailabilityWriteThrough),
		),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.domains.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.domains.catalog.application")),
	)
	return panelcore.New(orders, catalog,
		panelcore.WithNotifier(term),
		panelcore.WithLogger(logger),
		panelcore.WithPolling(cfg.PollInterval, cfg.PollOnlyOrdersTab),
	)
}
