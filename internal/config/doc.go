// Package config loads, defaults, and validates the portal's TOML
// configuration.
//
// Environment variables LOG_LEVEL, LOG_DIR, DB_PATH, and PORTAL_API_BIND
// override the corresponding file values, matching how the portal has
// always been deployed.
package config
