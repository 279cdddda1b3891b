// Package ics implements the iCalendar codec for the CalDAV backend.
//
// It decodes VCALENDAR payloads returned by CalDAV REPORT queries into
// normalized events, and encodes new reservations into VCALENDAR
// payloads suitable for a CalDAV PUT.
//
// The codec is deliberately narrow: it extracts only the fields the
// booking core needs (summary, description, start, end, all-day flag)
// and builds single-VEVENT calendars. Recurrence expansion is not
// supported; CalDAV servers are asked to expand recurrences server-side
// via the REPORT time-range filter.
package ics
