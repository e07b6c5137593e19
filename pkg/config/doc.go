// Package config loads dotback's configuration.
//
// Sources are layered with koanf, later ones winning:
//
//  1. embedded/defaults.toml
//  2. $XDG_CONFIG_HOME/dotback/config.toml (or .yaml / .yml)
//  3. the file passed with --config
//  4. DOTBACK_* environment variables (DOTBACK_REMOTE_HOST -> remote.host)
//  5. command-line flags
//
// Lists are replaced, not merged: a user file that defines mappings
// replaces the default mapping list entirely.
package config
