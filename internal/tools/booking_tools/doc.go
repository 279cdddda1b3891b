// Package booking_tools provides MCP tools for the slot booking
// workflow: listing bookable days, resolving busy hours for a day and
// booking a one-hour slot. All tools operate on the calendars and
// policy the server context was configured with.
package booking_tools
