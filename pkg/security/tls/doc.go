/*
Package tls serves the verdict HTTP API over TLS.

The certificate is loaded by a CertificateReloader, which checks the files
for changes on an interval and swaps the certificate in place, so a renewed
certificate is picked up without a restart:

	reloader := tls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval, logger)
	if err := reloader.Start(ctx); err != nil {
		return err
	}

	tlsConfig, err := tls.NewServerConfig(&cfg.Server.TLS, reloader)
	if err != nil {
		return err
	}
	srv.SetTLSConfig(tlsConfig)

	checker.RegisterCheck("tls_certificate", reloader.Check)

TLS 1.0 and 1.1 are never accepted. When client_ca_file is set, client
certificates are verified against it according to client_auth.
*/
package tls
