package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"slotbook/internal/logging"
)

// Resolver reduces the backing calendars' events for one day to the
// set of hour buckets that are already occupied within the working
// window.
type Resolver struct {
	searcher  EventSearcher
	parser    EventParser
	calendars []SourceCalendar
	window    Window
	zone      *time.Location
	logger    *slog.Logger
}

// NewResolver creates a Resolver over the given source calendars.
func NewResolver(searcher EventSearcher, parser EventParser, calendars []SourceCalendar, window Window, zone *time.Location, logger *slog.Logger) (*Resolver, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid working window: %w", err)
	}
	if len(calendars) == 0 {
		return nil, fmt.Errorf("at least one source calendar is required")
	}
	if zone == nil {
		return nil, fmt.Errorf("reference zone is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		searcher:  searcher,
		parser:    parser,
		calendars: calendars,
		window:    window,
		zone:      zone,
		logger:    logging.WithService(logger, "booking"),
	}, nil
}

// BusyHours returns the hour-of-day buckets of day that are touched by
// at least one event in any source calendar, restricted to the working
// window. An event touching any part of an hour marks the whole hour.
//
// Availability degrades rather than fails: a calendar that cannot be
// read contributes zero events and the error is only logged, so the
// result may understate how busy the day is. The precise re-check in
// Coordinator.BookSlot is the authority at commit time.
func (r *Resolver) BusyHours(ctx context.Context, day Date) map[int]struct{} {
	logger := logging.WithOperation(r.logger, "busy_hours")

	winStart := day.Time(r.window.StartHour, r.zone)
	winEnd := day.Time(r.window.EndHour, r.zone)

	busy := make(map[int]struct{})

	for _, cal := range r.calendars {
		raws, err := r.searcher.SearchEvents(ctx, cal, winStart.UTC(), winEnd.UTC())
		if err != nil {
			logger.Warn("calendar search failed, treating as empty",
				logging.Calendar(cal.Name),
				logging.Err(err))
			continue
		}

		for _, raw := range raws {
			events, err := r.parser.Parse(raw)
			if err != nil {
				logger.Warn("skipping unparseable event payload",
					logging.Calendar(cal.Name),
					logging.Err(err))
				continue
			}
			for _, ev := range events {
				if ev.DateOnly {
					// Date-precision endpoints cannot occupy a bookable hour.
					continue
				}
				markBusyHours(busy, ev, winStart, winEnd, r.zone)
			}
		}
	}

	logger.Debug("resolved busy hours",
		slog.String("day", day.String()),
		slog.Int("busy_count", len(busy)))

	return busy
}

// Window returns the resolver's working window.
func (r *Resolver) Window() Window {
	return r.window
}

// markBusyHours adds every hour bucket touched by ev within
// [winStart, winEnd) to busy. Comparison happens on instants; hour
// values are taken in the reference zone.
func markBusyHours(busy map[int]struct{}, ev ParsedEvent, winStart, winEnd time.Time, zone *time.Location) {
	start := ev.Start.In(zone)
	end := ev.End.In(zone)

	if start.Before(winStart) {
		start = winStart
	}
	if end.After(winEnd) {
		end = winEnd
	}
	if !start.Before(end) {
		return
	}

	from := start.Hour()
	to := end.Hour()
	if end.Minute() != 0 || end.Second() != 0 || end.Nanosecond() != 0 {
		// A partial trailing hour still blocks the whole bucket.
		to++
	}
	for h := from; h < to; h++ {
		busy[h] = struct{}{}
	}
}
