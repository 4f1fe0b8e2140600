// Package config loads and validates application configuration from
// environment variables and an optional YAML file via viper.
package config
