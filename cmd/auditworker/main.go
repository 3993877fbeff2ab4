// Command auditworker receives the portal's session events from a Pub/Sub push
// subscription, logs them as an audit trail and counts them per tenant.
package main

import (
	"context"
	"log/slog"
	"os"

	"portal/config"
	"portal/internal/delivery"
	"portal/internal/delivery/worker"
	"portal/internal/delivery/worker/handler"
	logs "portal/internal/infra/log"
	"portal/internal/infra/metrics"
	"portal/internal/infra/pubsub"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Shutdowner

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	fx.New(
		fx.Supply(cfg),
		fx.Provide(
			logs.New,
			context.Background,
			metrics.New,
			handler.NewPushHandler,
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
		fx.Invoke(
			logSource,
			startServer,
		),
	).Run()
}

// logSource reports the event source and whether push requests are authenticated.
func logSource(cfg *config.Config, logger *slog.Logger) {
	provider := pubsub.ProviderLocal
	if cfg.PubSub != nil && cfg.PubSub.Provider != "" {
		provider = cfg.PubSub.Provider
	}

	logger.Info("Audit worker configured",
		slog.String("provider", provider),
		slog.Bool("push_auth", handler.PushAuthRequired(cfg)),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				params.Logger.Error("Audit worker server stopped", slog.Any("error", err))
				if shutdownErr := params.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
					os.Exit(1)
				}
			}
		}()
	}
}
