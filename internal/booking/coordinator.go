package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"slotbook/internal/logging"
)

// Coordinator reserves a slot in the write calendar if and only if no
// overlapping event exists in any source calendar at commit time.
//
// The check-then-write sequence is optimistic: it protects against
// stale availability shown to the user, and a per-user Gate serializes
// attempts from the same actor, but a true race between different
// users is bounded by the backing calendar's own consistency.
type Coordinator struct {
	searcher  EventSearcher
	creator   EventCreator
	parser    EventParser
	builder   EventBuilder
	calendars []SourceCalendar
	writeCal  SourceCalendar
	zone      *time.Location
	logger    *slog.Logger
}

// NewCoordinator creates a Coordinator. Every calendar in calendars is
// consulted for conflicts; writeCal is the single calendar that
// receives new events and must be one of calendars.
func NewCoordinator(searcher EventSearcher, creator EventCreator, parser EventParser, builder EventBuilder, calendars []SourceCalendar, writeCal SourceCalendar, zone *time.Location, logger *slog.Logger) (*Coordinator, error) {
	if len(calendars) == 0 {
		return nil, fmt.Errorf("at least one source calendar is required")
	}
	found := false
	for _, cal := range calendars {
		if cal.ID == writeCal.ID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("write calendar %q is not among the source calendars", writeCal.ID)
	}
	if zone == nil {
		return nil, fmt.Errorf("reference zone is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		searcher:  searcher,
		creator:   creator,
		parser:    parser,
		builder:   builder,
		calendars: calendars,
		writeCal:  writeCal,
		zone:      zone,
		logger:    logging.WithService(logger, "booking"),
	}, nil
}

// BookSlot re-validates req against live calendar state and, if no
// conflict exists, creates the reservation in the write calendar.
//
// The overlap test is strict and half-open: a request that exactly
// abuts an existing event is not a conflict. All endpoints are
// normalized to the reference zone before comparison; comparing mixed
// zones numerically silently produces wrong results around DST
// transitions.
//
// On success exactly one event exists afterwards; on any conflict or
// failure path nothing was written. Failure detail is logged, not
// returned.
func (c *Coordinator) BookSlot(ctx context.Context, req Request) Outcome {
	logger := logging.WithOperation(c.logger, "book_slot").With(
		slog.Time("slot_start", req.Start),
		slog.Time("slot_end", req.End),
	)

	localStart := req.Start.In(c.zone)
	localEnd := req.End.In(c.zone)

	// Step 1: always re-fetch live state, never a cached view.
	for _, cal := range c.calendars {
		raws, err := c.searcher.SearchEvents(ctx, cal, req.Start.UTC(), req.End.UTC())
		if err != nil {
			logger.Error("conflict check failed",
				logging.Calendar(cal.Name),
				logging.Err(err))
			return OutcomeError
		}

		// Step 2: strict half-open overlap against every readable event.
		for _, raw := range raws {
			events, err := c.parser.Parse(raw)
			if err != nil {
				logger.Warn("skipping unparseable event payload during conflict check",
					logging.Calendar(cal.Name),
					logging.Err(err))
				continue
			}
			for _, ev := range events {
				if ev.DateOnly {
					continue
				}
				exStart := ev.Start.In(c.zone)
				exEnd := ev.End.In(c.zone)
				if exStart.Before(localEnd) && exEnd.After(localStart) {
					logger.Info("slot conflict",
						logging.Calendar(cal.Name),
						slog.Time("existing_start", exStart),
						slog.Time("existing_end", exEnd))
					return OutcomeConflict
				}
			}
		}
	}

	// Step 3: commit to the write calendar only.
	draft := EventDraft{
		UID:         uuid.NewString(),
		Summary:     req.Summary,
		Description: req.Description,
		Start:       localStart,
		End:         localEnd,
	}

	raw, err := c.builder.Build(draft)
	if err != nil {
		logger.Error("failed to encode reservation", logging.Err(err))
		return OutcomeError
	}

	if err := c.creator.CreateEvent(ctx, c.writeCal, raw); err != nil {
		logger.Error("failed to create reservation",
			logging.Calendar(c.writeCal.Name),
			logging.Err(err))
		return OutcomeError
	}

	logger.Info("slot booked",
		logging.Calendar(c.writeCal.Name),
		slog.String("uid", draft.UID))
	return OutcomeBooked
}

// WriteCalendar returns the calendar that receives reservations.
func (c *Coordinator) WriteCalendar() SourceCalendar {
	return c.writeCal
}
