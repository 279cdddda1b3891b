package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"slotbook/internal/booking"
	"slotbook/internal/server"
)

// RegisterBookingResources registers read-only resources describing the
// scheduling setup. Clients can fetch these to ground their answers
// without issuing tool calls.
func RegisterBookingResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	configResource := mcp.NewResource(
		"booking://config",
		"Scheduling Configuration",
		mcp.WithResourceDescription("Active backend, timezone, calendars, working-hour window and booking policy"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(configResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSchedulingConfig(ctx, request, sc)
	})

	daysResource := mcp.NewResource(
		"booking://availability/days",
		"Bookable Days",
		mcp.WithResourceDescription("Days currently open for booking under the lead-time and horizon policy"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(daysResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleBookableDays(ctx, request, sc)
	})

	return nil
}

// handleSchedulingConfig returns the effective scheduling configuration.
// Credentials never appear here; the config file holds none.
func handleSchedulingConfig(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	cfg := sc.Config()

	calendars := make([]map[string]string, 0, len(cfg.Calendars))
	for _, cal := range cfg.Calendars {
		calendars = append(calendars, map[string]string{
			"id":   cal.ID,
			"name": cal.Name,
		})
	}

	configData := map[string]interface{}{
		"backend":        sc.BackendName(),
		"timezone":       cfg.Timezone,
		"calendars":      calendars,
		"write_calendar": cfg.WriteCalendar,
		"window": map[string]int{
			"start_hour": cfg.Window.StartHour,
			"end_hour":   cfg.Window.EndHour,
		},
		"policy": map[string]interface{}{
			"min_lead_days":    cfg.Policy.MinLeadDays,
			"horizon_days":     cfg.Policy.HorizonDays,
			"blocked_weekdays": cfg.Policy.BlockedWeekdays,
			"blocked_dates":    cfg.Policy.BlockedDates,
		},
	}

	jsonData, err := json.MarshalIndent(configData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scheduling config: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleBookableDays returns the days currently open for booking.
func handleBookableDays(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	today := booking.DateOf(time.Now(), sc.Zone())
	dates := sc.Policy().BookableDates(today)

	days := make([]string, 0, len(dates))
	for _, d := range dates {
		days = append(days, d.String())
	}

	daysData := map[string]interface{}{
		"today":    today.String(),
		"timezone": sc.Config().Timezone,
		"days":     days,
	}

	jsonData, err := json.MarshalIndent(daysData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bookable days: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
