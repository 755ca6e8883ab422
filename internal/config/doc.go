// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. Every service binary reads the same Config and picks the
// parts it needs.
package config
