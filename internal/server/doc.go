// Package server provides the MCP server context, health checks and
// the metrics server for the slotbook application.
//
// ServerContext wires the availability resolver, the booking
// coordinator and the per-user gate to the calendar backend the
// configuration selects (CalDAV or Google Calendar). Backends are
// built once at startup; tool handlers share a single context.
//
// HealthChecker exposes /healthz and /readyz for Kubernetes probes.
// MetricsServer serves Prometheus metrics on a dedicated port,
// isolated from the MCP transport.
package server
