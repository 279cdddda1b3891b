package booking

import (
	"testing"
	"time"
)

func TestPolicy_Bookable(t *testing.T) {
	// 2026-09-14 is a Monday.
	today := Date{Year: 2026, Month: time.September, Day: 14}
	policy := DefaultPolicy()

	tests := []struct {
		name   string
		target Date
		want   bool
	}{
		{
			name:   "today violates lead time",
			target: today,
			want:   false,
		},
		{
			name:   "tomorrow is the first bookable day",
			target: today.AddDays(1),
			want:   true,
		},
		{
			name:   "last day of the horizon",
			target: today.AddDays(31),
			want:   true,
		},
		{
			name:   "past the horizon",
			target: today.AddDays(32),
			want:   false,
		},
		{
			name:   "sunday is blocked",
			target: Date{Year: 2026, Month: time.September, Day: 20},
			want:   false,
		},
		{
			name:   "yesterday",
			target: today.AddDays(-1),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Bookable(today, tt.target); got != tt.want {
				t.Errorf("Bookable(%v, %v) = %v, want %v", today, tt.target, got, tt.want)
			}
		})
	}
}

func TestPolicy_BlockedDates(t *testing.T) {
	today := Date{Year: 2026, Month: time.September, Day: 14}
	holiday := today.AddDays(3)

	policy := DefaultPolicy()
	policy.BlockedDates[holiday] = struct{}{}

	if policy.Bookable(today, holiday) {
		t.Error("Individually blocked date must not be bookable")
	}
	if !policy.Bookable(today, today.AddDays(2)) {
		t.Error("Unblocked weekday must stay bookable")
	}
}

func TestPolicy_BookableDates(t *testing.T) {
	// Monday; the default horizon covers 31 candidate days of which
	// the Sundays drop out.
	today := Date{Year: 2026, Month: time.September, Day: 14}
	policy := DefaultPolicy()

	dates := policy.BookableDates(today)

	if len(dates) == 0 {
		t.Fatal("Expected bookable dates")
	}
	if dates[0] != today.AddDays(1) {
		t.Errorf("First bookable date = %v, want %v", dates[0], today.AddDays(1))
	}
	for _, d := range dates {
		if d.Weekday() == time.Sunday {
			t.Errorf("Sunday %v must not be bookable", d)
		}
		if !policy.Bookable(today, d) {
			t.Errorf("BookableDates returned unbookable %v", d)
		}
	}
	// 31 candidate days (tomorrow through +31) minus the Sundays.
	sundays := 0
	for i := 1; i <= 31; i++ {
		if today.AddDays(i).Weekday() == time.Sunday {
			sundays++
		}
	}
	if want := 31 - sundays; len(dates) != want {
		t.Errorf("Expected %d bookable dates, got %d", want, len(dates))
	}
}

func TestPolicy_ZeroLeadDays(t *testing.T) {
	today := Date{Year: 2026, Month: time.September, Day: 14}
	policy := DefaultPolicy()
	policy.MinLeadDays = 0

	if !policy.Bookable(today, today) {
		t.Error("Zero lead days must allow booking today")
	}
}
