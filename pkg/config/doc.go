// Package config loads the verdict configuration.
//
// Configuration comes from a YAML file, then defaults fill the gaps, then
// environment variables override single fields, then the result is validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("verdict.yaml")
//
// Environment variables follow the pattern VERDICT_SECTION_FIELD, for example
// VERDICT_SERVER_LISTEN_ADDRESS or VERDICT_STORAGE_SQLITE_PATH.
//
// Validation collects every problem before returning, so a ValidationError
// lists all invalid fields at once.
//
// The CLI keeps one process-wide configuration through Initialize and
// GetConfig. Library code should take a *Config explicitly.
package config
