// Package config loads, normalizes, and validates cartshelf configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CARTSHELF_LLM_API_KEY. The Config type centralizes every knob the CLI
// needs, so collection directories, network settings, and naming preferences
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical naming modes, and clear validation errors.
package config
