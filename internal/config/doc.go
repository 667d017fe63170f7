// Package config loads, normalizes, and validates movieguide configuration.
//
// It supplies repository defaults, expands tilde paths, reads TOML files,
// and honors environment fallbacks such as OMDB_API_KEY and
// FEED_AUTH_TOKEN. The Config type centralizes every knob the daemon and
// CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
