// Package config loads, normalizes, and validates Ferry configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FERRY_SOURCE_DIR and SMB_PASSWORD. The Config type centralizes every knob
// the daemon and CLI need; it is constructed once and passed by reference so
// components never consult global state.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a validated run mode, and clear startup errors.
package config
