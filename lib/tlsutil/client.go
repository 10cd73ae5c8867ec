package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"software.sslmate.com/src/go-pkcs12"
)

// Config holds the TLS settings used when connecting to FHIR servers.
type Config struct {
	// CertFile is a PEM certificate file, or a .p12/.pfx file containing both certificate and key.
	CertFile string `koanf:"certfile"`
	// KeyFile is the PEM key file. It is not used when CertFile is a .p12/.pfx file.
	KeyFile string `koanf:"keyfile"`
	// Password for the .p12/.pfx file.
	Password string `koanf:"password"`
	// CAFile contains additional CA certificates to trust, in PEM format.
	CAFile string `koanf:"cafile"`
}

// IsConfigured returns true if a client certificate or CA file is configured.
func (c Config) IsConfigured() bool {
	return c.CertFile != "" || c.CAFile != ""
}

// LoadClientCertificate loads a client certificate from a PEM or PKCS#12 file.
func LoadClientCertificate(certFile, keyFile, password string) (tls.Certificate, error) {
	if certFile == "" {
		return tls.Certificate{}, fmt.Errorf("certificate file not specified")
	}

	ext := strings.ToLower(filepath.Ext(certFile))
	if ext == ".p12" || ext == ".pfx" {
		cert, err := loadPKCS12(certFile, password)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load PKCS#12: %w", err)
		}
		log.Info().Str("p12File", certFile).Msg("Loaded client certificate from PKCS#12")
		return cert, nil
	}

	if keyFile == "" {
		return tls.Certificate{}, fmt.Errorf("key file required when using PEM certificate")
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load certificate: %w", err)
	}
	log.Info().Str("certFile", certFile).Str("keyFile", keyFile).Msg("Loaded client certificate from PEM")
	return cert, nil
}

// LoadCACertPool returns the system cert pool extended with the certificates in caFile.
func LoadCACertPool(caFile string) (*x509.CertPool, error) {
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	log.Info().Str("caFile", caFile).Msg("Loaded CA certificate")
	return pool, nil
}

// CreateTLSConfig creates a TLS configuration with the optional client certificate and CA.
func CreateTLSConfig(config Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	if config.CertFile != "" {
		cert, err := LoadClientCertificate(config.CertFile, config.KeyFile, config.Password)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	if config.CAFile != "" {
		pool, err := LoadCACertPool(config.CAFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}
	return tlsConfig, nil
}

// NewTransport returns a clone of http.DefaultTransport, with the TLS configuration applied if configured.
func NewTransport(config Config) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !config.IsConfigured() {
		return transport, nil
	}
	tlsConfig, err := CreateTLSConfig(config)
	if err != nil {
		return nil, err
	}
	transport.TLSClientConfig = tlsConfig
	return transport, nil
}

func loadPKCS12(p12File, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(p12File)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to read PKCS#12 file: %w", err)
	}

	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to decode PKCS#12: %w", err)
	}

	var certPEM, keyPEM []byte
	for _, block := range blocks {
		pemBytes := pem.EncodeToMemory(block)
		if block.Type == "CERTIFICATE" {
			certPEM = append(certPEM, pemBytes...)
		} else if strings.Contains(block.Type, "PRIVATE KEY") {
			keyPEM = pemBytes
		}
	}
	if len(certPEM) == 0 || len(keyPEM) == 0 {
		return tls.Certificate{}, fmt.Errorf("certificate or key not found in PKCS#12")
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}
