package tls

import (
	"context"
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/verdict/pkg/config"
)

func startedReloader(t *testing.T, certFile, keyFile string) *CertificateReloader {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := NewCertificateReloader(certFile, keyFile, 0, nil)
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return r
}

func TestNewServerConfig(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := validCert(t, dir, "verdict.test")
	r := startedReloader(t, certFile, keyFile)

	caFile := filepath.Join(dir, "ca.pem")
	pemBytes, err := os.ReadFile(certFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(caFile, pemBytes, 0o600); err != nil {
		t.Fatal(err)
	}
	badCA := filepath.Join(dir, "bad-ca.pem")
	if err := os.WriteFile(badCA, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		cfg            config.TLSConfig
		wantErr        bool
		wantMinVersion uint16
		wantClientAuth tls.ClientAuthType
		wantSuites     int
	}{
		{
			name:           "tls 1.3 default",
			cfg:            config.TLSConfig{Enabled: true, MinVersion: "1.3"},
			wantMinVersion: tls.VersionTLS13,
		},
		{
			name: "tls 1.2 with suites",
			cfg: config.TLSConfig{
				Enabled:      true,
				MinVersion:   "1.2",
				CipherSuites: []string{"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256", "TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305"},
			},
			wantMinVersion: tls.VersionTLS12,
			wantSuites:     2,
		},
		{
			name:    "unknown suite",
			cfg:     config.TLSConfig{Enabled: true, CipherSuites: []string{"TLS_RSA_WITH_RC4_128_SHA"}},
			wantErr: true,
		},
		{
			name:           "client certificates",
			cfg:            config.TLSConfig{Enabled: true, ClientCAFile: caFile, ClientAuth: "verify_if_given"},
			wantMinVersion: tls.VersionTLS13,
			wantClientAuth: tls.VerifyClientCertIfGiven,
		},
		{
			name:    "unparseable client CA",
			cfg:     config.TLSConfig{Enabled: true, ClientCAFile: badCA},
			wantErr: true,
		},
		{
			name:    "missing client CA",
			cfg:     config.TLSConfig{Enabled: true, ClientCAFile: filepath.Join(dir, "missing.pem")},
			wantErr: true,
		},
		{
			name:    "disabled",
			cfg:     config.TLSConfig{Enabled: false},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewServerConfig(&tt.cfg, r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewServerConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.MinVersion != tt.wantMinVersion {
				t.Errorf("MinVersion = %x, want %x", got.MinVersion, tt.wantMinVersion)
			}
			if got.ClientAuth != tt.wantClientAuth {
				t.Errorf("ClientAuth = %v, want %v", got.ClientAuth, tt.wantClientAuth)
			}
			if len(got.CipherSuites) != tt.wantSuites {
				t.Errorf("CipherSuites = %v, want %d suites", got.CipherSuites, tt.wantSuites)
			}
			if cert, err := got.GetCertificate(nil); err != nil || cert == nil {
				t.Errorf("GetCertificate() = %v, %v", cert, err)
			}
		})
	}
}

func TestNewServerConfig_UnstartedReloader(t *testing.T) {
	r := NewCertificateReloader("server.crt", "server.key", 0, nil)
	if _, err := NewServerConfig(&config.TLSConfig{Enabled: true}, r); err == nil {
		t.Error("expected error for reloader without a certificate")
	}
}
