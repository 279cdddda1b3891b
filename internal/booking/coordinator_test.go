package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestCoordinator(t *testing.T, fake *fakeCalendars) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(fake, fake, fake, fake,
		[]SourceCalendar{calWork, calPersonal}, calWork, moscow(t), nil)
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	return c
}

func slotRequest(t *testing.T, hour int) Request {
	t.Helper()
	start := time.Date(2026, 9, 15, hour, 0, 0, 0, moscow(t))
	return Request{
		Summary: "Lesson: Alice",
		Start:   start,
		End:     start.Add(time.Hour),
	}
}

func TestBookSlot_Booked(t *testing.T) {
	fake := newFakeCalendars()
	c := newTestCoordinator(t, fake)

	outcome := c.BookSlot(context.Background(), slotRequest(t, 14))
	if outcome != OutcomeBooked {
		t.Fatalf("Expected booked, got %v", outcome)
	}

	created := fake.created["work"]
	if len(created) != 1 {
		t.Fatalf("Expected 1 event in the write calendar, got %d", len(created))
	}
	if created[0].UID == "" {
		t.Error("Reservation has no UID")
	}
	if created[0].Summary != "Lesson: Alice" {
		t.Errorf("Unexpected summary %q", created[0].Summary)
	}
	if len(fake.created["personal"]) != 0 {
		t.Error("Only the write calendar may receive events")
	}
}

func TestBookSlot_ConflictInAnyCalendar(t *testing.T) {
	loc := moscow(t)
	fake := newFakeCalendars()
	// The conflict lives in a calendar that is not the write calendar.
	fake.events["personal"] = []ParsedEvent{
		{
			Summary: "Existing meeting",
			Start:   time.Date(2026, 9, 15, 14, 30, 0, 0, loc),
			End:     time.Date(2026, 9, 15, 15, 30, 0, 0, loc),
		},
	}
	c := newTestCoordinator(t, fake)

	outcome := c.BookSlot(context.Background(), slotRequest(t, 14))
	if outcome != OutcomeConflict {
		t.Fatalf("Expected conflict, got %v", outcome)
	}
	if len(fake.created["work"]) != 0 {
		t.Error("Conflict must not write anything")
	}
}

func TestBookSlot_AbuttingEventsDoNotConflict(t *testing.T) {
	loc := moscow(t)
	fake := newFakeCalendars()
	fake.events["work"] = []ParsedEvent{
		// Ends exactly when the request starts.
		{Start: time.Date(2026, 9, 15, 13, 0, 0, 0, loc), End: time.Date(2026, 9, 15, 14, 0, 0, 0, loc)},
		// Starts exactly when the request ends.
		{Start: time.Date(2026, 9, 15, 15, 0, 0, 0, loc), End: time.Date(2026, 9, 15, 16, 0, 0, 0, loc)},
	}
	c := newTestCoordinator(t, fake)

	if outcome := c.BookSlot(context.Background(), slotRequest(t, 14)); outcome != OutcomeBooked {
		t.Errorf("Abutting events must not conflict, got %v", outcome)
	}
}

func TestBookSlot_OneSecondOverlapConflicts(t *testing.T) {
	loc := moscow(t)
	fake := newFakeCalendars()
	fake.events["work"] = []ParsedEvent{
		// Ends one second into the requested slot.
		{
			Start: time.Date(2026, 9, 15, 13, 0, 0, 0, loc),
			End:   time.Date(2026, 9, 15, 14, 0, 1, 0, loc),
		},
	}
	c := newTestCoordinator(t, fake)

	if outcome := c.BookSlot(context.Background(), slotRequest(t, 14)); outcome != OutcomeConflict {
		t.Errorf("One-second overlap must conflict, got %v", outcome)
	}
}

func TestBookSlot_ComparesInstantsAcrossZones(t *testing.T) {
	fake := newFakeCalendars()
	// 11:30 UTC is 14:30 MSK, overlapping the 14:00-15:00 MSK request.
	fake.events["work"] = []ParsedEvent{
		{
			Start: time.Date(2026, 9, 15, 11, 30, 0, 0, time.UTC),
			End:   time.Date(2026, 9, 15, 12, 30, 0, 0, time.UTC),
		},
	}
	c := newTestCoordinator(t, fake)

	if outcome := c.BookSlot(context.Background(), slotRequest(t, 14)); outcome != OutcomeConflict {
		t.Errorf("UTC event overlapping in instant must conflict, got %v", outcome)
	}
}

func TestBookSlot_IgnoresDateOnlyEvents(t *testing.T) {
	day := Date{Year: 2026, Month: time.September, Day: 15}
	fake := newFakeCalendars()
	fake.events["work"] = []ParsedEvent{
		{
			Start:    day.Time(0, time.UTC),
			End:      day.AddDays(1).Time(0, time.UTC),
			DateOnly: true,
		},
	}
	c := newTestCoordinator(t, fake)

	if outcome := c.BookSlot(context.Background(), slotRequest(t, 14)); outcome != OutcomeBooked {
		t.Errorf("All-day events must not block booking, got %v", outcome)
	}
}

func TestBookSlot_SearchFailureIsError(t *testing.T) {
	fake := newFakeCalendars()
	fake.searchErrs["personal"] = errors.New("unreachable")
	c := newTestCoordinator(t, fake)

	// Unlike availability, the conflict check must not degrade: an
	// unreadable calendar could hide a conflict.
	if outcome := c.BookSlot(context.Background(), slotRequest(t, 14)); outcome != OutcomeError {
		t.Fatalf("Expected error outcome, got %v", outcome)
	}
	if len(fake.created["work"]) != 0 {
		t.Error("Failed attempt must not write anything")
	}
}

func TestBookSlot_CreateFailureIsError(t *testing.T) {
	fake := newFakeCalendars()
	fake.createErr = errors.New("precondition failed")
	c := newTestCoordinator(t, fake)

	if outcome := c.BookSlot(context.Background(), slotRequest(t, 14)); outcome != OutcomeError {
		t.Errorf("Expected error outcome, got %v", outcome)
	}
}

func TestBookSlot_SecondAttemptSeesFirst(t *testing.T) {
	fake := newFakeCalendars()
	c := newTestCoordinator(t, fake)
	req := slotRequest(t, 14)

	if outcome := c.BookSlot(context.Background(), req); outcome != OutcomeBooked {
		t.Fatalf("First attempt: expected booked, got %v", outcome)
	}
	if outcome := c.BookSlot(context.Background(), req); outcome != OutcomeConflict {
		t.Errorf("Second attempt must observe the first, got %v", outcome)
	}
	if len(fake.created["work"]) != 1 {
		t.Errorf("Expected exactly 1 event, got %d", len(fake.created["work"]))
	}
}

func TestBookSlot_ConcurrentSameUserSameSlot(t *testing.T) {
	fake := newFakeCalendars()
	c := newTestCoordinator(t, fake)
	gate := NewGate()
	req := slotRequest(t, 14)

	var wg sync.WaitGroup
	outcomes := make(chan Outcome, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := gate.Acquire("user-a")
			defer release()
			outcomes <- c.BookSlot(context.Background(), req)
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := make(map[Outcome]int)
	for outcome := range outcomes {
		counts[outcome]++
	}
	if counts[OutcomeBooked] != 1 || counts[OutcomeConflict] != 1 {
		t.Fatalf("Expected exactly one booked and one conflict, got %v", counts)
	}
	if len(fake.created["work"]) != 1 {
		t.Fatalf("Expected exactly 1 created event, got %d", len(fake.created["work"]))
	}
}

func TestNewCoordinator_WriteCalendarMustBeSource(t *testing.T) {
	fake := newFakeCalendars()
	other := SourceCalendar{ID: "other", Name: "other"}

	if _, err := NewCoordinator(fake, fake, fake, fake, []SourceCalendar{calWork}, other, moscow(t), nil); err == nil {
		t.Error("Expected error when write calendar is not among sources")
	}
}
