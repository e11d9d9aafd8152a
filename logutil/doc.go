// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logutil provides a structured logging abstraction built on top of slog.
//
// # Basic Usage
//
//	// Initialize logging (typically in main.go)
//	logutil.SetupLogger(debug, structured)
//
//	logutil.Info("viewer listening", "port", port)
//	logutil.Error("spawn failed", "error", err)
//
// Components keep a scoped logger:
//
//	log := logutil.NewLogger("proxyconfig").WithLaunch(id)
//	log.Info("token persisted", "dir", loc.Dir)
//
// Token values must never be passed to a logger. Log the token directory or
// the launch ID instead.
//
// # Debug Mode
//
// Debug logging can be enabled in two ways:
//   - Pass debug=true to SetupLogger
//   - Set IMAGE_VIEWER_DEBUG=true environment variable
//
// # Structured Logging
//
// When structured=true is passed to SetupLogger, logs are output as JSON:
//
//	{"time":"2024-01-15T10:30:00Z","level":"INFO","msg":"viewer listening","port":8080}
//
// Otherwise, logs use a human-readable text format:
//
//	time=2024-01-15T10:30:00Z level=INFO msg="viewer listening" port=8080
package logutil
