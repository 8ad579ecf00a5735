package tls

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"
)

// CertificateReloader watches certificate files and reloads them when they
// change, so renewed certificates are served without a restart.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	cert     *tls.Certificate
	certTime time.Time
	keyTime  time.Time
}

// NewCertificateReloader creates a reloader checking the files every interval.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *slog.Logger) *CertificateReloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger.With("component", "tls"),
	}
}

// Start loads the certificate and checks for changes in the background until
// ctx is cancelled. A certificate that cannot be loaded is an error.
func (r *CertificateReloader) Start(ctx context.Context) error {
	if err := r.reload(); err != nil {
		return err
	}
	r.logCertificateInfo()

	if r.interval > 0 {
		go r.reloadLoop(ctx)
	}
	return nil
}

func (r *CertificateReloader) reloadLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !r.needsReload() {
				continue
			}
			// A failed reload keeps serving the previous certificate.
			if err := r.reload(); err != nil {
				r.logger.Error("failed to reload certificate",
					"error", err,
					"cert_file", r.certFile,
					"key_file", r.keyFile,
				)
				continue
			}
			r.logger.Info("certificate reloaded", "cert_file", r.certFile)
			r.logCertificateInfo()

		case <-ctx.Done():
			return
		}
	}
}

// needsReload reports whether either file changed since the last load.
func (r *CertificateReloader) needsReload() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return !certInfo.ModTime().Equal(r.certTime) || !keyInfo.ModTime().Equal(r.keyTime)
}

func (r *CertificateReloader) reload() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return err
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return err
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return err
	}
	if err := ValidateCertificate(&cert); err != nil {
		return err
	}

	r.mu.Lock()
	r.cert = &cert
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.mu.Unlock()

	return nil
}

// GetCertificate returns the current certificate, or nil before Start.
func (r *CertificateReloader) GetCertificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificateFunc returns a tls.Config.GetCertificate callback.
func (r *CertificateReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		cert := r.GetCertificate()
		if cert == nil {
			return nil, errors.New("no certificate loaded")
		}
		return cert, nil
	}
}

// Check is a readiness check failing when the served certificate is not
// currently valid.
func (r *CertificateReloader) Check(context.Context) error {
	return ValidateCertificate(r.GetCertificate())
}

func (r *CertificateReloader) logCertificateInfo() {
	leaf, err := leafOf(r.GetCertificate())
	if err != nil {
		return
	}

	days, warning := CheckCertificateExpiration(leaf, time.Now())
	if warning != "" {
		r.logger.Warn("certificate expiring soon",
			"subject", leaf.Subject.CommonName,
			"expires_in_days", days,
			"expires_at", leaf.NotAfter.Format(time.RFC3339),
		)
		return
	}
	r.logger.Info("certificate loaded",
		"subject", leaf.Subject.CommonName,
		"issuer", leaf.Issuer.CommonName,
		"expires_in_days", days,
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	)
}
