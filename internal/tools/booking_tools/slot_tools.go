package booking_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"slotbook/internal/booking"
	"slotbook/internal/instrumentation"
	"slotbook/internal/server"
	"slotbook/internal/tools/common"
)

// RegisterSlotTools registers the slot booking tool with the MCP server
func RegisterSlotTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	bookSlotTool := mcp.NewTool("booking_book_slot",
		mcp.WithDescription("Book a one-hour slot if it is still free, re-checking all calendars at commit time"),
		mcp.WithString("user_key",
			mcp.Required(),
			mcp.Description("Opaque key identifying the acting user. Attempts from the same user are serialized."),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("The day to book, in 2006-01-02 form"),
		),
		mcp.WithNumber("hour",
			mcp.Required(),
			mcp.Description("Start hour of the slot in the working timezone (e.g. 14 for 14:00-15:00)"),
		),
		mcp.WithString("summary",
			mcp.Description("Event title for the reservation (default: 'Lesson')"),
		),
		mcp.WithString("description",
			mcp.Description("Optional event description"),
		),
	)

	s.AddTool(bookSlotTool, common.InstrumentedToolHandlerWithBackend(
		"booking_book_slot", sc.BackendName(), instrumentation.OperationBookSlot, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBookSlot(ctx, request, sc)
		}))

	return nil
}

func handleBookSlot(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userKey := common.GetUserKeyFromArgs(args)
	if userKey == "" {
		return mcp.NewToolResultError("user_key is required"), nil
	}

	dateStr, ok := getDateFromArgs(args)
	if !ok {
		return mcp.NewToolResultError("date is required"), nil
	}
	day, err := booking.ParseDate(dateStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid date format: %v", err)), nil
	}

	hourVal, ok := args["hour"].(float64)
	if !ok {
		return mcp.NewToolResultError("hour is required"), nil
	}
	hour := int(hourVal)

	summary := "Lesson"
	if s, ok := args["summary"].(string); ok && s != "" {
		summary = s
	}
	description, _ := args["description"].(string)

	window := sc.Window()
	if !window.Contains(hour) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Hour %d is outside the working window %02d:00-%02d:00", hour, window.StartHour, window.EndHour)), nil
	}

	today := booking.DateOf(time.Now(), sc.Zone())
	if !sc.Policy().Bookable(today, day) {
		return mcp.NewToolResultError(fmt.Sprintf("Date %s is not open for booking", day)), nil
	}

	ctx, span := instrumentation.StartToolSpan(ctx, "booking_book_slot",
		instrumentation.NewSpanAttributeBuilder().
			WithService("booking").
			WithOperation(instrumentation.OperationBookSlot).
			WithBackend(sc.BackendName()).
			WithDate(day.String()).
			Build()...)
	defer span.End()

	start := day.Time(hour, sc.Zone())
	req := booking.Request{
		Summary:     summary,
		Description: description,
		Start:       start,
		End:         start.Add(time.Hour),
	}

	// One attempt per user at a time; the lock spans the conflict
	// re-check and the write.
	if metrics := sc.Metrics(); metrics != nil {
		metrics.IncrementActiveBookingLocks(ctx)
		defer metrics.DecrementActiveBookingLocks(ctx)
	}
	release := sc.Gate().Acquire(userKey)
	defer release()

	outcome := sc.Coordinator().BookSlot(ctx, req)

	if metrics := sc.Metrics(); metrics != nil {
		metrics.RecordBookingAttempt(ctx, outcome.String())
	}
	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().WithResult(outcome.String()).Build()...)

	switch outcome {
	case booking.OutcomeBooked:
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText(fmt.Sprintf(
			"Booked %s %02d:00-%02d:00 (%s)", day, hour, hour+1, sc.Zone())), nil
	case booking.OutcomeConflict:
		instrumentation.SetSpanSuccess(span)
		return mcp.NewToolResultText(fmt.Sprintf(
			"Slot %s %02d:00 is already taken. Pick another hour.", day, hour)), nil
	default:
		instrumentation.SetSpanError(span, fmt.Errorf("booking attempt failed"))
		return mcp.NewToolResultError("Booking failed due to a calendar error. Nothing was written; try again."), nil
	}
}
