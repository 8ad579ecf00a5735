package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"time"
)

// ExpiryWarningDays is the remaining validity below which a loaded
// certificate is logged as expiring soon.
const ExpiryWarningDays = 30

// ValidateCertificate checks that the leaf of a certificate chain is
// currently valid.
func ValidateCertificate(cert *tls.Certificate) error {
	leaf, err := leafOf(cert)
	if err != nil {
		return err
	}
	return ValidateX509Certificate(leaf, time.Now())
}

// ValidateX509Certificate checks that cert is valid at now.
func ValidateX509Certificate(cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate is not yet valid (valid from %s)", cert.NotBefore.Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate expired on %s", cert.NotAfter.Format(time.RFC3339))
	}
	return nil
}

// CheckCertificateExpiration returns the days left before cert expires and a
// warning when fewer than ExpiryWarningDays remain.
func CheckCertificateExpiration(cert *x509.Certificate, now time.Time) (daysUntilExpiry int, warning string) {
	daysUntilExpiry = int(cert.NotAfter.Sub(now).Hours() / 24)
	if daysUntilExpiry < ExpiryWarningDays {
		warning = fmt.Sprintf("certificate expires in %d days (on %s)",
			daysUntilExpiry, cert.NotAfter.Format("2006-01-02"))
	}
	return daysUntilExpiry, warning
}

func leafOf(cert *tls.Certificate) (*x509.Certificate, error) {
	if cert == nil {
		return nil, fmt.Errorf("certificate is nil")
	}
	if cert.Leaf != nil {
		return cert.Leaf, nil
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("certificate chain is empty")
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return leaf, nil
}
