// Package config loads Kick Shopping API configuration from an optional
// YAML file and environment variables, tracking the source of each value.
package config
