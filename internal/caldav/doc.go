// Package caldav provides a minimal CalDAV client for the booking core.
//
// It speaks the two verbs the core needs:
//
//   - REPORT calendar-query with a time-range filter, returning the raw
//     iCalendar payloads of matching objects (RFC 4791 section 7.8).
//     Recurring events are expanded by the server within the range.
//   - PUT of a new calendar object into a collection, with
//     If-None-Match to guarantee create-only semantics.
//
// Authentication is HTTP basic auth, which is what iCloud app-specific
// passwords and most self-hosted CalDAV servers expect. The client
// implements booking.EventSearcher and booking.EventCreator; payload
// decoding and encoding live in the ics package.
package caldav
