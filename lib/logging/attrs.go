package logging

import (
	"fmt"
	"log/slog"
	"net/url"
)

// Error returns a slog attribute for errors.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// FHIRServer returns a slog attribute for FHIR server URLs.
func FHIRServer(rawURL string) slog.Attr {
	return slog.String("fhir_server", RedactURL(rawURL))
}

// RedactURL strips the query and user info from the URL, since launch URLs may carry tokens.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

// Address returns a slog attribute for a listener address.
func Address(addr string) slog.Attr {
	return slog.String("address", addr)
}

// TypeOf returns a slog attribute with the type name of the given value.
func TypeOf(key string, v any) slog.Attr {
	return slog.String(key, fmt.Sprintf("%T", v))
}

// Component returns a slog attribute for a component type.
func Component(v any) slog.Attr {
	return TypeOf("component", v)
}
