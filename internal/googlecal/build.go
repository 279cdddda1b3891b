package googlecal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"slotbook/internal/booking"
)

// Builder encodes reservation drafts as JSON Google Calendar API
// events. It implements booking.EventBuilder.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build encodes a draft. The draft UID becomes the event's iCalUID so
// reservations keep a stable identity across backends.
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

	event := &calendar.Event{
		ICalUID:     draft.UID,
		Summary:     draft.Summary,
		Description: draft.Description,
		Start: &calendar.EventDateTime{
			DateTime: draft.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: draft.End.Format(time.RFC3339),
		},
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	return raw, nil
}
