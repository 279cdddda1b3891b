package ics

import (
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"slotbook/internal/booking"
)

const prodID = "-//slotbook//booking//EN"

// Builder encodes reservation drafts into single-VEVENT VCALENDAR
// payloads. It implements booking.EventBuilder.
type Builder struct {
	// now is overridable for deterministic DTSTAMP values in tests.
	now func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Build encodes a draft as a VCALENDAR containing one VEVENT.
// Start and end are serialized as UTC instants; the wall-clock hour in
// the reference zone is preserved because the instant is unchanged.
func (b *Builder) Build(draft booking.EventDraft) (booking.RawEvent, error) {
	if draft.UID == "" {
		return nil, errors.New("draft UID is required")
	}
	if draft.Start.IsZero() || draft.End.IsZero() {
		return nil, errors.New("draft start and end are required")
	}
	if !draft.Start.Before(draft.End) {
		return nil, fmt.Errorf("draft start %v is not before end %v", draft.Start, draft.End)
	}

	cal := ical.NewCalendar()
	cal.SetProductId(prodID)

	ev := cal.AddEvent(draft.UID)
	ev.SetDtStampTime(b.now().UTC())
	ev.SetStartAt(draft.Start)
	ev.SetEndAt(draft.End)
	ev.SetSummary(draft.Summary)
	if draft.Description != "" {
		ev.SetDescription(draft.Description)
	}

	return booking.RawEvent(cal.Serialize()), nil
}
