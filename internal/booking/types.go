package booking

import (
	"context"
	"fmt"
	"time"
)

// SourceCalendar identifies one backing calendar consulted for conflicts.
type SourceCalendar struct {
	// ID is the backend's opaque identifier for the calendar
	// (collection path for CalDAV, calendar ID for Google).
	ID string
	// Name is a human-friendly label used in logs.
	Name string
	// URL is the calendar's endpoint. May be empty for backends that
	// address calendars by ID alone.
	URL string
}

// RawEvent is an opaque calendar-interchange payload for a single
// calendar object, exactly as returned by the backend. Only the
// matching EventParser knows its format.
type RawEvent []byte

// ParsedEvent is the normalized form of one event extracted from a
// RawEvent payload. Start and End carry their own locations; compare
// instants, not wall clocks.
type ParsedEvent struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time

	// DateOnly marks events whose endpoints have date precision only
	// (all-day events). They cannot occupy a bookable hour and are
	// ignored by both the resolver and the coordinator.
	DateOnly bool
}

// Request describes one slot reservation attempt. Start and End are
// absolute instants; in this system End is always Start plus one hour,
// but the coordinator does not enforce the duration itself.
type Request struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// EventDraft is the coordinator's output handed to an EventBuilder:
// the new reservation before backend encoding.
type EventDraft struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// EventSearcher reads raw events from one calendar within a time range.
type EventSearcher interface {
	SearchEvents(ctx context.Context, cal SourceCalendar, start, end time.Time) ([]RawEvent, error)
}

// EventCreator writes a new event payload into one calendar. There are
// no partial-write modes: after a nil return the event exists.
type EventCreator interface {
	CreateEvent(ctx context.Context, cal SourceCalendar, raw RawEvent) error
}

// EventParser decodes a raw payload into its events. A non-nil error
// means the whole payload is unparseable; callers skip it and move on,
// parsing failures are never fatal to availability or booking reads.
type EventParser interface {
	Parse(raw RawEvent) ([]ParsedEvent, error)
}

// EventBuilder encodes an EventDraft into the payload the backing
// calendar expects on write.
type EventBuilder interface {
	Build(draft EventDraft) (RawEvent, error)
}

// Outcome is the tagged result of a booking attempt. A conflict is a
// normal negative result, distinct from infrastructure failure.
type Outcome int

const (
	// OutcomeError means a fetch, encode or write failure prevented
	// the attempt; nothing was written. Detail is logged, not
	// returned. It is the zero value, so a default-initialized
	// Outcome never reads as success.
	OutcomeError Outcome = iota
	// OutcomeConflict means an overlapping event was found; nothing
	// was written.
	OutcomeConflict
	// OutcomeBooked means the event was durably accepted by the write
	// calendar.
	OutcomeBooked
)

// Booked reports whether the attempt resulted in a reservation.
func (o Outcome) Booked() bool { return o == OutcomeBooked }

func (o Outcome) String() string {
	switch o {
	case OutcomeBooked:
		return "booked"
	case OutcomeConflict:
		return "conflict"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Date is a civil calendar date, independent of any timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in 2006-01-02 form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t, time.UTC), nil
}

// Time returns the instant at the given hour of the date in loc.
func (d Date) Time(hour int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(0, time.UTC).AddDate(0, 0, n), time.UTC)
}

// Weekday returns the day of week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time(0, time.UTC).Weekday()
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Window is the daily working-hour range [StartHour, EndHour) in the
// reference civil zone. Only slots inside the window are bookable.
type Window struct {
	StartHour int
	EndHour   int
}

// Validate checks the window describes a non-empty range within a day.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("window start hour %d out of range", w.StartHour)
	}
	if w.EndHour < 1 || w.EndHour > 24 {
		return fmt.Errorf("window end hour %d out of range", w.EndHour)
	}
	if w.StartHour >= w.EndHour {
		return fmt.Errorf("window start hour %d not before end hour %d", w.StartHour, w.EndHour)
	}
	return nil
}

// Hours returns every hour value inside the window, in order.
func (w Window) Hours() []int {
	hours := make([]int, 0, w.EndHour-w.StartHour)
	for h := w.StartHour; h < w.EndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Contains reports whether hour falls inside the window.
func (w Window) Contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}
