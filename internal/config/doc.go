// Package config loads runtime configuration from multiple sources (environment
// file, YAML file, environment variables, CLI flags) with precedence: CLI flags >
// YAML config > Environment variables > Defaults. Credentials are only ever read
// from the environment or the environment file.
package config
