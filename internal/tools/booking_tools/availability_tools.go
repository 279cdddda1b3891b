package booking_tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"slotbook/internal/booking"
	"slotbook/internal/instrumentation"
	"slotbook/internal/server"
	"slotbook/internal/tools/batch"
	"slotbook/internal/tools/common"
)

// RegisterAvailabilityTools registers the read-only availability tools
// with the MCP server
func RegisterAvailabilityTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listDaysTool := mcp.NewTool("booking_list_bookable_days",
		mcp.WithDescription("List the days currently open for booking, honoring lead time, horizon and blocked days"),
	)

	s.AddTool(listDaysTool, common.InstrumentedToolHandler("booking_list_bookable_days", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListBookableDays(ctx, sc)
		}))

	busyHoursTool := mcp.NewTool("booking_get_busy_hours",
		mcp.WithDescription("Resolve which hours of a day are already occupied within the working window"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("The day to check, in 2006-01-02 form"),
		),
	)

	s.AddTool(busyHoursTool, common.InstrumentedToolHandlerWithBackend(
		"booking_get_busy_hours", sc.BackendName(), instrumentation.OperationBusyHours, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetBusyHours(ctx, request, sc)
		}))

	checkFreeTool := mcp.NewTool("booking_check_free_hours",
		mcp.WithDescription("Check free hours for one or more days in a single call. Accepts a single date or an array of dates in 2006-01-02 form"),
		mcp.WithString("dates",
			mcp.Required(),
			mcp.Description("A date, or an array of dates, to check"),
		),
	)

	s.AddTool(checkFreeTool, common.InstrumentedToolHandlerWithBackend(
		"booking_check_free_hours", sc.BackendName(), instrumentation.OperationBusyHours, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckFreeHours(ctx, request, sc)
		}))

	return nil
}

func handleListBookableDays(ctx context.Context, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, span := instrumentation.StartToolSpan(ctx, "booking_list_bookable_days",
		instrumentation.NewSpanAttributeBuilder().
			WithService("booking").
			WithReadOnly(true).
			Build()...)
	defer span.End()

	today := booking.DateOf(time.Now(), sc.Zone())
	dates := sc.Policy().BookableDates(today)

	if len(dates) == 0 {
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText("No days are currently open for booking"), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d day(s) open for booking:\n\n", len(dates))
	for _, d := range dates {
		fmt.Fprintf(&sb, "- %s (%s)\n", d.String(), d.Weekday())
	}

	instrumentation.SetSpanSuccess(span)
	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetBusyHours(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	dateStr, ok := getDateFromArgs(args)
	if !ok {
		return mcp.NewToolResultError("date is required"), nil
	}
	day, err := booking.ParseDate(dateStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid date format: %v", err)), nil
	}

	ctx, span := instrumentation.StartToolSpan(ctx, "booking_get_busy_hours",
		instrumentation.NewSpanAttributeBuilder().
			WithService("booking").
			WithOperation(instrumentation.OperationBusyHours).
			WithBackend(sc.BackendName()).
			WithDate(day.String()).
			WithReadOnly(true).
			Build()...)
	defer span.End()

	busy := sc.Resolver().BusyHours(ctx, day)
	window := sc.Window()

	busyHours := make([]int, 0, len(busy))
	freeHours := make([]int, 0, window.EndHour-window.StartHour)
	for _, h := range window.Hours() {
		if _, taken := busy[h]; taken {
			busyHours = append(busyHours, h)
		} else {
			freeHours = append(freeHours, h)
		}
	}
	sort.Ints(busyHours)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Availability for %s (window %02d:00-%02d:00 %s):\n\n",
		day.String(), window.StartHour, window.EndHour, sc.Zone())
	fmt.Fprintf(&sb, "Busy hours: %s\n", formatHours(busyHours))
	fmt.Fprintf(&sb, "Free hours: %s\n", formatHours(freeHours))

	instrumentation.SetSpanSuccess(span)
	return mcp.NewToolResultText(sb.String()), nil
}

func handleCheckFreeHours(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	dates, err := batch.ParseStringOrArray(args["dates"], "dates")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, span := instrumentation.StartToolSpan(ctx, "booking_check_free_hours",
		instrumentation.NewSpanAttributeBuilder().
			WithService("booking").
			WithOperation(instrumentation.OperationBusyHours).
			WithBackend(sc.BackendName()).
			WithReadOnly(true).
			Build()...)
	defer span.End()

	window := sc.Window()
	results := batch.ProcessBatch(dates, func(dateStr string) (string, error) {
		day, err := booking.ParseDate(dateStr)
		if err != nil {
			return "", err
		}

		busy := sc.Resolver().BusyHours(ctx, day)
		freeHours := make([]int, 0, window.EndHour-window.StartHour)
		for _, h := range window.Hours() {
			if _, taken := busy[h]; !taken {
				freeHours = append(freeHours, h)
			}
		}
		return fmt.Sprintf("free: %s", formatHours(freeHours)), nil
	})

	instrumentation.SetSpanSuccess(span)
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func formatHours(hours []int) string {
	if len(hours) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(hours))
	for _, h := range hours {
		parts = append(parts, fmt.Sprintf("%02d:00", h))
	}
	return strings.Join(parts, ", ")
}
