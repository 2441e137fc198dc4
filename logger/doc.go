// Package logger provides structured logging for gostream using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields. The engine logs at debug
// level only, so an application that does not configure logging sees
// nothing from it.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("stream")
//	log.Debug("evaluation finished", logger.Fields("op", "collect", "leaves", 16))
package logger
