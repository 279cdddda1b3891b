// Package resources provides MCP resources for exposing booking context.
// Resources are read-only data sources that MCP clients can fetch, such as
// the active scheduling configuration and the current bookable-day range,
// so an assistant can ground its answers without issuing tool calls.
package resources
