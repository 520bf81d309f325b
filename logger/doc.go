// Package logger provides structured logging using zerolog.
//
// Loggers are tagged per component so every line emitted by a blobstore
// driver carries the directory key and backend it serves.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("blobctl").WithComponent("blobstore")
//	log.Info("provisioned", logger.Fields(logger.FieldDirectoryKey, "cc-packages"))
package logger
