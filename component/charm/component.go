package charm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nuts-foundation/charm-calculator/component"
	"github.com/nuts-foundation/charm-calculator/component/tracing"
	"github.com/nuts-foundation/charm-calculator/lib/fhirutil"
	"github.com/nuts-foundation/charm-calculator/lib/httpauth"
	"github.com/nuts-foundation/charm-calculator/lib/tlsutil"
	"github.com/rs/zerolog/log"
)

type FHIRConfig struct {
	// Timeout bounds all requests made to the FHIR server for a single page view.
	Timeout time.Duration `koanf:"timeout"`
	// RateLimit is the maximum number of requests per second per FHIR server. Zero disables rate limiting.
	RateLimit float64 `koanf:"ratelimit"`
	Burst     int     `koanf:"burst"`
	// MaxObservations is the page size of the Observation search.
	MaxObservations int                   `koanf:"maxobservations"`
	TLS             tlsutil.Config        `koanf:"tls"`
	OAuth2          httpauth.OAuth2Config `koanf:"oauth2"`
}

type Config struct {
	FHIR FHIRConfig `koanf:"fhir"`
	// AllowedFHIRServers restricts the FHIR servers patient data may be fetched from, by URL prefix.
	AllowedFHIRServers []string `koanf:"allowedfhirservers"`
	// MaxBundleEntries is the maximum number of Observations accepted by the RiskAssessment evaluate operation.
	MaxBundleEntries int `koanf:"maxbundleentries"`
}

func DefaultConfig() Config {
	return Config{
		FHIR: FHIRConfig{
			Timeout:         10 * time.Second,
			RateLimit:       10,
			Burst:           5,
			MaxObservations: 100,
		},
		MaxBundleEntries: 1000,
	}
}

var _ component.Lifecycle = (*Component)(nil)

type Component struct {
	config  Config
	policy  launchPolicy
	fetcher Fetcher
}

// New creates the CHARM calculator component, which serves the calculator form and the scoring APIs.
func New(config Config, strictMode bool) (*Component, error) {
	transport, err := tlsutil.NewTransport(config.FHIR.TLS)
	if err != nil {
		return nil, fmt.Errorf("FHIR client TLS configuration: %w", err)
	}
	limiter := fhirutil.NewHostLimiter(config.FHIR.RateLimit, config.FHIR.Burst)
	baseTransport := tracing.WrapTransport(limiter.Transport(transport))

	fetcher := fhirFetcher{
		transport:       baseTransport,
		timeout:         config.FHIR.Timeout,
		maxObservations: config.FHIR.MaxObservations,
	}
	if fetcher.maxObservations <= 0 {
		fetcher.maxObservations = DefaultConfig().FHIR.MaxObservations
	}
	if config.FHIR.OAuth2.IsConfigured() {
		fetcher.serverClient, err = httpauth.NewOAuth2HTTPClient(config.FHIR.OAuth2, baseTransport)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("FHIR client credentials configured, launches without token will use them")
	}
	if config.MaxBundleEntries <= 0 {
		config.MaxBundleEntries = DefaultConfig().MaxBundleEntries
	}
	return &Component{
		config: config,
		policy: launchPolicy{
			strictMode:        strictMode,
			allowedServers:    config.AllowedFHIRServers,
			serverCredentials: fetcher.serverClient != nil,
		},
		fetcher: fetcher,
	}, nil
}

func (c *Component) Start() error {
	// Nothing to do
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	// Nothing to do
	return nil
}

func (c *Component) RegisterHttpHandlers(publicMux *http.ServeMux, _ *http.ServeMux) {
	publicMux.HandleFunc("GET /charm", c.handleForm)
	publicMux.HandleFunc("POST /charm", c.handleFormPost)
	publicMux.HandleFunc("POST /charm/api/score", c.handleScore)
	publicMux.HandleFunc("POST /charm/fhir/RiskAssessment/$evaluate", c.handleEvaluate)
}
