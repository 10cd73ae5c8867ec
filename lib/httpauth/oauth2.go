// Package httpauth provides HTTP clients that authenticate outbound requests to FHIR servers.
package httpauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNoToken is returned when a bearer token client is requested without a token.
var ErrNoToken = errors.New("no bearer token")

// OAuth2Config holds the configuration for OAuth2 client credentials authentication.
type OAuth2Config struct {
	TokenEndpoint string   `koanf:"tokenendpoint"`
	ClientID      string   `koanf:"clientid"`
	ClientSecret  string   `koanf:"clientsecret"`
	Scopes        []string `koanf:"scopes"`
}

// IsConfigured returns true if the OAuth2 configuration has all required fields set.
func (c OAuth2Config) IsConfigured() bool {
	return c.TokenEndpoint != "" && c.ClientID != "" && c.ClientSecret != ""
}

// NewOAuth2HTTPClient creates an http.Client that acquires, caches and refreshes tokens using the client credentials grant.
// The baseTransport is used for both token endpoint calls and resource requests. Pass nil to use http.DefaultTransport.
func NewOAuth2HTTPClient(config OAuth2Config, baseTransport http.RoundTripper) (*http.Client, error) {
	if !config.IsConfigured() {
		return nil, fmt.Errorf("oauth2 configuration is incomplete: tokenendpoint, clientid, and clientsecret are required")
	}

	conf := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenEndpoint,
		Scopes:       config.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: baseTransport})
	return conf.Client(ctx), nil
}

// NewBearerTokenHTTPClient creates an http.Client that sends the given access token as bearer token on every request.
// The token is typically handed over by the EHR that launched the application.
func NewBearerTokenHTTPClient(accessToken string, baseTransport http.RoundTripper) (*http.Client, error) {
	if accessToken == "" {
		return nil, ErrNoToken
	}
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: accessToken,
				TokenType:   "Bearer",
			}),
			Base: baseTransport,
		},
	}, nil
}
