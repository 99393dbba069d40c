// Package config loads hostkit configuration.
//
// It uses Viper to read a YAML, JSON or TOML file, then overlays
// environment variables (optionally loaded from a .env file by godotenv).
// Variables carrying the service prefix map onto nested keys:
//
//	HOSTKIT_PREFERENCES_BACKEND=sqlite  ->  preferences.backend
//	HOSTKIT_CHARSET_DEFAULT=latin1      ->  charset.default
//
// # Usage
//
//	var cfg bootstrap.Config
//	err := config.LoadConfig("hostkit", &cfg, config.WithConfigFile("hostkit.yml"))
package config
