// Package config loads, normalizes, and validates reelflow configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// COMPOSER_API_KEY. The Config type centralizes every knob the daemon and CLI
// need, so data directories, the API bind address, and collaborator service
// credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
