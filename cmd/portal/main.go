package main

import (
	"context"
	"log/slog"
	"os"

	"portal/config"
	"portal/internal/delivery"
	"portal/internal/delivery/api"
	"portal/internal/delivery/api/middleware"
	"portal/internal/delivery/api/router/handler"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/infra/apiclient"
	logs "portal/internal/infra/log"
	"portal/internal/infra/metrics"
	"portal/internal/infra/notification"
	"portal/internal/infra/pubsub"
	"portal/internal/infra/redis"
	"portal/internal/infra/storage"
	"portal/internal/tenant"
	"portal/internal/usecase/impl"

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

	// The tenant is resolved once, before the graph is built, so an unresolved
	// process never constructs the tenant stack.
	selection := tenant.New(cfg)

	options := []fx.Option{
		fx.Supply(cfg, selection),
		injectInfra(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	}
	if selection.Resolved {
		options = append(options,
			fx.Supply(selection.Tenant),
			injectService(),
			injectUsecase(),
			injectMiddleware(),
			injectHandler(),
		)
	} else {
		slog.Warn("No tenant matched this deployment, serving the not-found page only",
			slog.String("selector", selection.Env.Override),
			slog.String("host", selection.Env.Host),
			slog.String("port", selection.Env.Port),
		)
	}

	fx.New(options...).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		logs.New,
		context.Background,
		metrics.New,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			apiclient.New,
			func(c *apiclient.Client) impl.UpstreamClient { return c },
			redis.New,
			storage.NewFactory,
			newPushTokenVerifier,
		),
		pubsub.Module,
	)
}

// newPushTokenVerifier checks push tokens with Firebase when credentials are configured
func newPushTokenVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.PushTokenVerifier, error) {
	if cfg.Firebase == nil || cfg.Firebase.CredentialsPath == "" {
		logger.Info("Firebase not configured, push tokens are forwarded unchecked")

		return notification.NewAcceptAllVerifier(), nil
	}

	verifier, err := notification.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Firebase verifier")
	}

	return verifier, nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionProvider,
			impl.NewResetFlowService,
			impl.NewBookingService,
			impl.NewPaymentService,
			impl.NewSupportService,
			impl.NewCalendarService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewSessionMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPager,
			handler.NewAuthHandler,
			handler.NewShellHandler,
			handler.NewBookingHandler,
			handler.NewPaymentHandler,
			handler.NewSupportHandler,
			handler.NewCalendarHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				params.Logger.Error("Portal server stopped", slog.Any("error", err))
				if shutdownErr := params.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
					os.Exit(1)
				}
			}
		}()
	}
}
