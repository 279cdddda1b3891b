// Package logging provides structured logging utilities for the slotbook application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (user identifier anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "booking.book_slot")
//	logger.Info("slot booked",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("booking attempt",
//	    logging.UserHash(userKey))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - User identifiers are hashed to prevent PII leakage while allowing correlation
//   - Credentials are never logged directly
package logging
