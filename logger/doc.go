// Package logger provides structured logging for the auth service using
// zerolog.
//
// It supports JSON and console output, level configuration from config
// files or environment variables, and component-scoped loggers with
// structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("librosauth").WithComponent("account")
//	log.Info("user registered", logger.Fields(logger.FieldUserID, id))
//
// Never pass plaintext passwords, password hashes, tokens or signing
// secrets as field values.
package logger
