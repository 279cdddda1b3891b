// Package instrumentation provides comprehensive OpenTelemetry instrumentation
// for the slotbook MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, booking attempts, and calendar backend calls
//   - Distributed tracing for request flows and backend calls
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Calendar Backend Metrics:
//   - calendar_operations_total: Counter of backend operations by backend, operation, status
//   - calendar_operation_duration_seconds: Histogram of backend operation durations
//
// Booking Metrics:
//   - booking_attempts_total: Counter of slot booking attempts by result (booked, conflict, error)
//   - active_booking_locks: Gauge of booking attempts holding or waiting on a user lock
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - MCP tool invocations (tool.<name>)
//   - Calendar backend calls (calendar.<backend>.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: slotbook)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "slotbook",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record a calendar backend operation
//	recorder.RecordCalendarOperation(ctx, "caldav", "search_events", "success", time.Since(start))
//
//	// Record a booking attempt
//	recorder.RecordBookingAttempt(ctx, instrumentation.BookingResultBooked)
//
//	// Record an MCP tool invocation
//	recorder.RecordToolInvocation(ctx, "booking_book_slot", "success", time.Since(start))
package instrumentation
