// Package batch provides common utilities for multi-item MCP tool calls.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Formatting per-item results in a consistent structure
//   - Collecting partial failures without aborting the whole call
//
// Availability lookups use it to answer for several dates in one call.
package batch
