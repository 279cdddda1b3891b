package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/metric/noop"

	"slotbook/internal/booking"
	"slotbook/internal/config"
	"slotbook/internal/instrumentation"
	"slotbook/internal/server"
)

type fakeBackend struct{}

func (fakeBackend) SearchEvents(_ context.Context, _ booking.SourceCalendar, _, _ time.Time) ([]booking.RawEvent, error) {
	return nil, nil
}

func (fakeBackend) CreateEvent(_ context.Context, _ booking.SourceCalendar, _ booking.RawEvent) error {
	return nil
}

func (fakeBackend) Parse(_ booking.RawEvent) ([]booking.ParsedEvent, error) {
	return nil, nil
}

func (fakeBackend) Build(_ booking.EventDraft) (booking.RawEvent, error) {
	return booking.RawEvent("{}"), nil
}

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Calendars = []config.CalendarConfig{
		{ID: "/calendars/user/work/", Name: "student_work", URL: "https://caldav.example.com/calendars/user/work/"},
	}
	cfg.WriteCalendar = "student_work"

	fb := fakeBackend{}
	sc, err := server.NewServerContextWithBackend(context.Background(), cfg, server.Backend{
		Searcher: fb,
		Creator:  fb,
		Parser:   fb,
		Builder:  fb,
		Name:     "fake",
	}, nil)
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	// Create a handler that returns success
	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	// Wrap with instrumentation
	wrapped := InstrumentedToolHandler("test_tool", sc, handler)

	// Call the wrapped handler
	result, err := wrapped(ctx, mcp.CallToolRequest{})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	// Create a handler that returns an error
	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	// Wrap with instrumentation
	wrapped := InstrumentedToolHandler("test_tool", sc, handler)

	// Call the wrapped handler
	_, err := wrapped(ctx, mcp.CallToolRequest{})

	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestInstrumentedToolHandler_ErrorResult(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	// Create a handler that returns an error result (not Go error)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("error message"), nil
	}

	// Wrap with instrumentation
	wrapped := InstrumentedToolHandler("test_tool", sc, handler)

	// Call the wrapped handler
	result, err := wrapped(ctx, mcp.CallToolRequest{})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
	if !result.IsError {
		t.Error("expected result.IsError to be true")
	}
}

func TestInstrumentedToolHandlerWithBackend_Success(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	// Create a handler that returns success
	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	// Wrap with instrumentation
	wrapped := InstrumentedToolHandlerWithBackend("test_tool", "caldav", "search_events", sc, handler)

	// Call the wrapped handler
	result, err := wrapped(ctx, mcp.CallToolRequest{})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
}

func TestInstrumentedToolHandlerWithBackend_WithMetrics(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	// Create metrics with noop meter (for testing)
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	sc.SetInstrumentation(metrics, nil)

	// Create a handler that simulates some work
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		time.Sleep(1 * time.Millisecond)
		return mcp.NewToolResultText("success"), nil
	}

	// Wrap with instrumentation including backend info
	wrapped := InstrumentedToolHandlerWithBackend("booking_get_busy_hours", "caldav", "busy_hours", sc, handler)

	// Call the wrapped handler
	result, err := wrapped(ctx, mcp.CallToolRequest{})

	// Verify the call succeeded
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result == nil {
		t.Error("expected result, got nil")
	}

	// Note: With noop meter, we can't verify actual metric values,
	// but we verify the code path executes without panics.
}

func TestInstrumentedToolHandlerWithBackend_ErrorWithMetrics(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	// Create metrics with noop meter
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	sc.SetInstrumentation(metrics, nil)

	// Create a handler that returns an error
	expectedErr := errors.New("calendar backend error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	// Wrap with instrumentation including backend info
	wrapped := InstrumentedToolHandlerWithBackend("booking_book_slot", "caldav", "book_slot", sc, handler)

	// Call the wrapped handler
	_, err = wrapped(ctx, mcp.CallToolRequest{})

	// Verify the error is propagated
	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}
