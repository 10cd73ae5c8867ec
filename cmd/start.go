package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nuts-foundation/charm-calculator/component"
	"github.com/nuts-foundation/charm-calculator/component/charm"
	libHTTPComponent "github.com/nuts-foundation/charm-calculator/component/http"
	"github.com/nuts-foundation/charm-calculator/component/status"
	"github.com/nuts-foundation/charm-calculator/component/tracing"
	"github.com/nuts-foundation/charm-calculator/lib/logging"
	"github.com/pkg/errors"
)

func Start(ctx context.Context, config Config) error {
	if !config.Core.StrictMode {
		slog.WarnContext(ctx, "Strict mode is disabled. This is NOT recommended for production environments!")
	}
	for _, server := range config.Charm.AllowedFHIRServers {
		slog.DebugContext(ctx, "Allowed FHIR server", logging.FHIRServer(server))
	}

	publicMux := http.NewServeMux()
	internalMux := http.NewServeMux()

	// Tracing component must be started first to capture logs and spans from other components.
	// We start it immediately (not in the component loop) so that logs from other component
	// constructors (New functions) are also captured via OTLP.
	config.Tracing.ServiceVersion = status.Version()
	tracingComponent := tracing.New(config.Tracing)
	if err := tracingComponent.Start(); err != nil {
		return errors.Wrap(err, "failed to start tracing component")
	}

	// Tracing must also be stopped when the system fails to start, otherwise its exporters keep running.
	abort := func(err error) error {
		if stopErr := tracingComponent.Stop(context.WithoutCancel(ctx)); stopErr != nil {
			slog.ErrorContext(ctx, "Error stopping tracing component", logging.Error(stopErr))
		}
		return err
	}

	charmComponent, err := charm.New(config.Charm, config.Core.StrictMode)
	if err != nil {
		return abort(errors.Wrap(err, "failed to create CHARM calculator component"))
	}
	components := []component.Lifecycle{
		charmComponent,
		status.New(),
		libHTTPComponent.New(config.HTTP, publicMux, internalMux),
	}

	// Components: RegisterHandlers()
	for _, cmp := range components {
		cmp.RegisterHttpHandlers(publicMux, internalMux)
	}

	// Components: Start()
	for _, cmp := range components {
		slog.DebugContext(ctx, "Starting component", logging.Component(cmp))
		if err := cmp.Start(); err != nil {
			return abort(errors.Wrapf(err, "failed to start component: %T", cmp))
		}
		slog.DebugContext(ctx, "Component started", logging.Component(cmp))
	}

	slog.InfoContext(ctx, "System started, waiting for shutdown...", logging.Address(config.HTTP.PublicInterface.Listener))
	<-ctx.Done()

	// Components: Stop()
	// Stopping must not be bound to the cancelled context, otherwise servers can't drain.
	stopCtx := context.WithoutCancel(ctx)
	slog.DebugContext(ctx, "Shutdown signalled, stopping components...")
	for _, cmp := range components {
		slog.DebugContext(ctx, "Stopping component", logging.Component(cmp))
		if err := cmp.Stop(stopCtx); err != nil {
			slog.ErrorContext(ctx, "Error stopping component", logging.Component(cmp), logging.Error(err))
		}
		slog.DebugContext(ctx, "Component stopped", logging.Component(cmp))
	}
	slog.InfoContext(ctx, "Goodbye!")

	// Stop tracing last to ensure all shutdown logs are captured
	if err := tracingComponent.Stop(stopCtx); err != nil {
		// Can't use slog here as the handler may already be shut down
		fmt.Printf("Error stopping tracing component: %v\n", err)
	}
	return nil
}
