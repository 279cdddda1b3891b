// Package common provides shared plumbing for the MCP booking tools:
// instrumented handler wrappers that record metrics and audit entries,
// and argument helpers such as user-key extraction.
package common
