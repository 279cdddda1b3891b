package booking

import "time"

// Policy restricts which dates are open for booking. The defaults
// match the deployed assistant: bookings open tomorrow, run thirty
// days ahead and skip Sundays.
type Policy struct {
	// MinLeadDays is the offset from today of the first bookable date.
	MinLeadDays int
	// HorizonDays is how many days past the first bookable date remain
	// bookable.
	HorizonDays int
	// BlockedWeekdays are never bookable.
	BlockedWeekdays map[time.Weekday]struct{}
	// BlockedDates are individually closed dates (holidays, vacation).
	BlockedDates map[Date]struct{}
}

// DefaultPolicy returns the stock booking policy.
func DefaultPolicy() Policy {
	return Policy{
		MinLeadDays: 1,
		HorizonDays: 30,
		BlockedWeekdays: map[time.Weekday]struct{}{
			time.Sunday: {},
		},
		BlockedDates: make(map[Date]struct{}),
	}
}

// Bookable reports whether target is open for booking as of today.
func (p Policy) Bookable(today, target Date) bool {
	first := today.AddDays(p.MinLeadDays)
	last := first.AddDays(p.HorizonDays)

	if target.Before(first) || last.Before(target) {
		return false
	}
	if _, blocked := p.BlockedWeekdays[target.Weekday()]; blocked {
		return false
	}
	if _, blocked := p.BlockedDates[target]; blocked {
		return false
	}
	return true
}

// BookableDates returns every bookable date in order, starting today.
func (p Policy) BookableDates(today Date) []Date {
	var dates []Date
	first := today.AddDays(p.MinLeadDays)
	for i := 0; i <= p.HorizonDays; i++ {
		d := first.AddDays(i)
		if p.Bookable(today, d) {
			dates = append(dates, d)
		}
	}
	return dates
}
