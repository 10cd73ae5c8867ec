package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nuts-foundation/charm-calculator/component"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var _ component.Lifecycle = (*Component)(nil)

type InterfaceConfig struct {
	// Listener is the address the HTTP server binds to, e.g. ":8080".
	Listener string `koanf:"address"`
	// BaseURL is the URL at which the interface is reachable from the outside.
	BaseURL string `koanf:"url"`
}

type Config struct {
	PublicInterface   InterfaceConfig `koanf:"public"`
	InternalInterface InterfaceConfig `koanf:"internal"`
}

func DefaultConfig() Config {
	return Config{
		PublicInterface: InterfaceConfig{
			Listener: ":8080",
			BaseURL:  "http://localhost:8080",
		},
		InternalInterface: InterfaceConfig{
			Listener: ":8081",
			BaseURL:  "http://localhost:8081",
		},
	}
}

type Component struct {
	publicAddr     string
	internalAddr   string
	publicMux      *http.ServeMux
	publicServer   *http.Server
	internalMux    *http.ServeMux
	internalServer *http.Server
}

// New creates an instance of the HTTP component, which serves the public (calculator) and internal (status) interfaces.
func New(config Config, publicMux *http.ServeMux, internalMux *http.ServeMux) *Component {
	return &Component{
		publicAddr:   config.PublicInterface.Listener,
		internalAddr: config.InternalInterface.Listener,
		publicMux:    publicMux,
		internalMux:  internalMux,
	}
}

func (c *Component) Start() error {
	publicListener, err := net.Listen("tcp", c.publicAddr)
	if err != nil {
		return fmt.Errorf("public HTTP interface: %w", err)
	}
	internalListener, err := net.Listen("tcp", c.internalAddr)
	if err != nil {
		_ = publicListener.Close()
		return fmt.Errorf("internal HTTP interface: %w", err)
	}
	c.publicServer = &http.Server{
		Handler:           Middleware("public", c.publicMux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	c.internalServer = &http.Server{
		Handler:           Middleware("internal", c.internalMux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Msgf("Starting HTTP servers (public-address: %s, internal-address: %s)", publicListener.Addr(), internalListener.Addr())
	go serve(c.publicServer, publicListener, "public")
	go serve(c.internalServer, internalListener, "internal")
	return nil
}

func serve(server *http.Server, listener net.Listener, name string) {
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Err(err).Msgf("Failed to serve %s HTTP interface", name)
	}
}

func (c *Component) Stop(ctx context.Context) error {
	if c.publicServer != nil {
		if err := c.publicServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown public HTTP server: %w", err)
		}
	}
	if c.internalServer != nil {
		if err := c.internalServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown internal HTTP server: %w", err)
		}
	}
	return nil
}

func (c *Component) RegisterHttpHandlers(publicMux *http.ServeMux, _ *http.ServeMux) {
	publicMux.Handle("GET /{$}", http.RedirectHandler("/charm", http.StatusFound))
}

// Middleware wraps the handler with tracing, a request-scoped logger and access logging.
// Only the path is logged: launch URLs carry bearer tokens in their query.
func Middleware(operation string, next http.Handler) http.Handler {
	handler := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	})(next)
	handler = hlog.RequestIDHandler("request_id", "X-Request-Id")(handler)
	handler = hlog.NewHandler(log.Logger.With().Str("interface", operation).Logger())(handler)
	return otelhttp.NewHandler(handler, operation)
}
