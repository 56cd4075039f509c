// Package config defines the linkgate-server configuration.
//
// Configuration is loaded through internal/infra/confloader with the
// usual priority: defaults, then the YAML file, then LINKGATE_*
// environment variables. Verify checks the loaded values before the
// server starts; Sanitize masks secrets for startup logging.
package config
