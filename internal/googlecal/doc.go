// Package googlecal implements the Google Calendar backend for the
// booking core.
//
// The client wraps the Google Calendar API service for one OAuth
// account and implements booking.EventSearcher and
// booking.EventCreator. Payloads cross the backend boundary as
// JSON-encoded calendar API events; the package's Parser and Builder
// are the only code that knows that encoding.
package googlecal
