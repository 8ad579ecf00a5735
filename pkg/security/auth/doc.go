/*
Package auth provides API key authentication for the verdict HTTP server.

Keys come from the server.auth section of the configuration, either literally
or from an environment variable:

	validator, err := auth.NewValidatorFromConfig(&cfg.Server.Auth)
	if err != nil {
		return err
	}
	handler = auth.Middleware(validator, cfg.Server.Auth.PathPrefix, logger, collector.RecordAuthFailure)(handler)

Clients send the key as a bearer token or in the X-API-Key header:

	Authorization: Bearer <key>
	X-API-Key: <key>

Requests outside the path prefix and CORS preflight requests pass through.
A missing or unknown key is answered with 401 and {"error": "..."}.

Only SHA-256 digests of the keys are kept in memory.

Handlers can read the name of the authenticated key:

	if key, ok := auth.KeyFromContext(r.Context()); ok {
		logger.Info("rule created", "api_key", key.Name)
	}
*/
package auth
