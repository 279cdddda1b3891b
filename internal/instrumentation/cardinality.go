package instrumentation

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with user identifiers.

// HashUserKey returns a short anonymized hash of a user identifier.
// This allows per-user correlation in audit logs without exposing the
// raw identifier, while keeping label values at a fixed length.
//
// Example:
//
//	HashUserKey("123456789")  // "user:1a2b3c4d5e6f7a8b"
//	HashUserKey("")           // "unknown"
func HashUserKey(userKey string) string {
	if userKey == "" {
		return "unknown"
	}

	hash := sha256.Sum256([]byte(userKey))
	return "user:" + hex.EncodeToString(hash[:8])
}

// Common operation types for calendar backend metrics.
// Status, booking-result, and service constants are defined in config.go.
const (
	OperationSearchEvents = "search_events"
	OperationCreateEvent  = "create_event"
	OperationBookSlot     = "book_slot"
	OperationBusyHours    = "busy_hours"
)
