package ics

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"slotbook/internal/booking"
	"slotbook/internal/logging"
)

const dateLayout = "20060102"

// Parser decodes iCalendar payloads into normalized events.
// It implements booking.EventParser.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Parser. If logger is nil, slog.Default() is used.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger: logging.WithService(logger, "ics"),
	}
}

// Parse decodes a VCALENDAR payload into its events.
//
// A payload that is not valid iCalendar returns an error. Individual
// VEVENTs with missing or malformed date properties are logged and
// skipped; the remaining events are still returned.
func (p *Parser) Parse(raw booking.RawEvent) ([]booking.ParsedEvent, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty iCalendar payload")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse iCalendar payload: %w", err)
	}

	vevents := cal.Events()
	events := make([]booking.ParsedEvent, 0, len(vevents))
	for _, ve := range vevents {
		ev, perr := parseVEvent(ve)
		if perr != nil {
			// Skip this event but keep decoding the others.
			p.logger.Debug("skipping malformed VEVENT", logging.Err(perr))
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

func parseVEvent(ve *ical.VEvent) (booking.ParsedEvent, error) {
	var out booking.ParsedEvent

	if prop := ve.GetProperty(ical.ComponentPropertySummary); prop != nil {
		out.Summary = prop.Value
	}
	if prop := ve.GetProperty(ical.ComponentPropertyDescription); prop != nil {
		out.Description = prop.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return out, errors.New("missing DTSTART")
	}

	if isDateOnly(dtStart) {
		return parseDateOnlyVEvent(ve, dtStart, out)
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("invalid DTSTART %q: %w", dtStart.Value, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, fmt.Errorf("invalid or missing DTEND: %w", err)
	}

	out.Start = start
	out.End = end
	return out, nil
}

// parseDateOnlyVEvent handles all-day events (DTSTART;VALUE=DATE).
// Their endpoints have date precision only, so they are flagged
// DateOnly and excluded from hour-level conflict checks.
func parseDateOnlyVEvent(ve *ical.VEvent, dtStart *ical.IANAProperty, out booking.ParsedEvent) (booking.ParsedEvent, error) {
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dtStart.Value), time.UTC)
	if err != nil {
		return out, fmt.Errorf("invalid all-day DTSTART %q: %w", dtStart.Value, err)
	}

	// DTEND is optional for all-day events; default to a one-day span.
	end := start.AddDate(0, 0, 1)
	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil && dtEnd.Value != "" {
		parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dtEnd.Value), time.UTC)
		if err != nil {
			return out, fmt.Errorf("invalid all-day DTEND %q: %w", dtEnd.Value, err)
		}
		end = parsed
	}

	out.Start = start
	out.End = end
	out.DateOnly = true
	return out, nil
}

// isDateOnly reports whether a DTSTART/DTEND property carries a date
// without a time component, either via VALUE=DATE or a bare YYYYMMDD value.
func isDateOnly(prop *ical.IANAProperty) bool {
	if params := prop.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(prop.Value, "T")
}
