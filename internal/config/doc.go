// Package config loads, normalizes, and validates Scribe's TOML
// configuration. Load resolves the config file location, applies repository
// defaults for anything unset, expands ~ paths, and rejects unusable values
// before the daemon or CLI touches them.
package config
