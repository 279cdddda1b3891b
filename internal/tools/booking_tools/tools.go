package booking_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"slotbook/internal/server"
)

// RegisterBookingTools registers all booking-related tools with the MCP server
func RegisterBookingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterAvailabilityTools(s, sc); err != nil {
		return fmt.Errorf("failed to register availability tools: %w", err)
	}

	if err := RegisterSlotTools(s, sc); err != nil {
		return fmt.Errorf("failed to register slot tools: %w", err)
	}

	return nil
}

// getDateFromArgs extracts the required "date" argument in 2006-01-02 form.
func getDateFromArgs(args map[string]interface{}) (string, bool) {
	date, ok := args["date"].(string)
	if !ok || date == "" {
		return "", false
	}
	return date, true
}
