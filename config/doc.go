// Package config loads the upstream connection settings for the gateway.
//
// Two keys are recognized, API_URL and API_KEY. They are read once from the
// process environment, with a local .env settings file as fallback (values
// already in the environment take precedence), and returned as an immutable
// Config value that main injects into the upstream client.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultEnvFile)
//	if err != nil {
//	    logger.Warn("Settings file could not be read", "error", err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    logger.Warn("Upstream settings incomplete", "error", err)
//	}
//
// Missing settings never stop the process. Upstream calls made without a base
// URL fail at request time and resolve to their documented default values.
package config
