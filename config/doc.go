// Package config loads service configuration with Viper.
//
// Sources, lowest precedence first: a config.yml found next to the binary
// (or given with WithConfigFile), a .env file loaded with godotenv, the
// process environment, and finally flat env aliases registered with
// WithEnvAliases.
//
// Environment variables map onto nested keys by splitting on underscores,
// so AUTH_JWT_SECRET sets auth.jwt.secret.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("librosauth", &cfg,
//	    config.WithEnvAliases(map[string]string{"JWT_SECRET": "auth.jwt.secret"}))
package config
