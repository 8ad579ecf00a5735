package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"mercator-hq/verdict/pkg/config"
)

// NewServerConfig builds the server tls.Config for cfg. Certificates are
// served from r, which must have been started.
func NewServerConfig(cfg *config.TLSConfig, r *CertificateReloader) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("TLS is not enabled")
	}
	if r == nil || r.GetCertificate() == nil {
		return nil, errors.New("certificate reloader has no certificate loaded")
	}

	suites, err := parseCipherSuites(cfg.CipherSuites)
	if err != nil {
		return nil, err
	}

	// #nosec G402 - MinVersion is validated to 1.2 or 1.3
	tlsConfig := &tls.Config{
		GetCertificate: r.GetCertificateFunc(),
		MinVersion:     parseTLSVersion(cfg.MinVersion),
		CipherSuites:   suites,
	}

	if cfg.ClientCAFile != "" {
		if err := configureClientAuth(tlsConfig, cfg); err != nil {
			return nil, fmt.Errorf("failed to configure client certificates: %w", err)
		}
	}

	return tlsConfig, nil
}

// parseTLSVersion maps "1.2" to TLS 1.2; anything else is TLS 1.3.
func parseTLSVersion(v string) uint16 {
	if v == "1.2" {
		return tls.VersionTLS12
	}
	return tls.VersionTLS13
}

// parseCipherSuites maps suite names to IDs. An empty list keeps Go's
// defaults.
func parseCipherSuites(names []string) ([]uint16, error) {
	if len(names) == 0 {
		return nil, nil
	}

	suites := make([]uint16, 0, len(names))
	for _, name := range names {
		id, ok := cipherSuiteMap[name]
		if !ok {
			return nil, fmt.Errorf("unsupported cipher suite %q", name)
		}
		suites = append(suites, id)
	}
	return suites, nil
}

// cipherSuiteMap lists the accepted TLS 1.2 suites. TLS 1.3 suites are not
// configurable.
var cipherSuiteMap = map[string]uint16{
	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":   tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":   tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256": tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384": tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305":    tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305":  tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
}

func configureClientAuth(tlsConfig *tls.Config, cfg *config.TLSConfig) error {
	caCert, err := os.ReadFile(cfg.ClientCAFile)
	if err != nil {
		return fmt.Errorf("failed to read client CA: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return fmt.Errorf("failed to parse client CA certificate %s", cfg.ClientCAFile)
	}

	tlsConfig.ClientCAs = pool
	tlsConfig.ClientAuth = parseClientAuthType(cfg.ClientAuth)
	return nil
}

func parseClientAuthType(s string) tls.ClientAuthType {
	switch s {
	case "request":
		return tls.RequestClientCert
	case "verify_if_given":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}
