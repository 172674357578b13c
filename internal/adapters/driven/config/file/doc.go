// Package file provides a file-based implementation of the config
// store port. Configuration persists as TOML in the o365 config
// directory, with nested tables flattened to dot-notation keys.
package file
