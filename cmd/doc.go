// Package cmd implements the command-line interface for slotbook.
//
// This package provides the following commands:
//   - availability: Show bookable days, or free and busy hours for one day
//   - book: Book a one-hour slot if it is still free
//   - serve: Start the MCP server to provide booking tools for AI assistants
//   - auth: Authorize access to Google Calendar for the googlecal backend
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The availability command is the default command when no subcommand is specified.
package cmd
