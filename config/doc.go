// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment.
//
// # Usage
//
//	var cfg MyConfig
//	err := config.Load("blobctl", &cfg, config.WithConfigFile("config.yml"))
//
// Environment variables override file values. With the prefix "BLOBCTL",
// BLOBCTL_LOGGING_LEVEL sets logging.level.
package config
