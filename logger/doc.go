// Package logger provides structured logging for hostkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers carrying structured fields. The bridges log
// through a *Logger handed to them at construction time; when none is
// given they fall back to the global logger.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("charset")
//	log.Error("conversion failed", logger.ErrorFields("decode", err))
package logger
