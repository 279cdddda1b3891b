package googlecal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"slotbook/internal/booking"
)

const dateLayout = "2006-01-02"

// Parser decodes JSON-encoded Google Calendar API events.
// It implements booking.EventParser.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes one API event payload. Cancelled events decode to an
// empty slice; they hold no time range and cannot conflict.
func (p *Parser) Parse(raw booking.RawEvent) ([]booking.ParsedEvent, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty event payload")
	}

	var event calendar.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}

	if event.Status == "cancelled" {
		return nil, nil
	}
	if event.Start == nil || event.End == nil {
		return nil, errors.New("event has no start or end")
	}

	out := booking.ParsedEvent{
		Summary:     event.Summary,
		Description: event.Description,
	}

	// All-day events carry Date instead of DateTime.
	if event.Start.Date != "" {
		start, err := time.ParseInLocation(dateLayout, event.Start.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid all-day start %q: %w", event.Start.Date, err)
		}
		end := start.AddDate(0, 0, 1)
		if event.End.Date != "" {
			end, err = time.ParseInLocation(dateLayout, event.End.Date, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("invalid all-day end %q: %w", event.End.Date, err)
			}
		}
		out.Start = start
		out.End = end
		out.DateOnly = true
		return []booking.ParsedEvent{out}, nil
	}

	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start %q: %w", event.Start.DateTime, err)
	}
	end, err := time.Parse(time.RFC3339, event.End.DateTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end %q: %w", event.End.DateTime, err)
	}

	out.Start = start
	out.End = end
	return []booking.ParsedEvent{out}, nil
}
