// Package google provides OAuth2 authentication and token management for
// the Google Calendar backend.
//
// Tokens are stored per account in files under the user cache directory.
// OAuth client credentials are never embedded; they come from the
// GOOGLE_OAUTH_CLIENT_ID and GOOGLE_OAUTH_CLIENT_SECRET environment
// variables.
//
// The TokenProvider interface allows different token sources to be plugged in,
// keeping the calendar client independent of where tokens live.
package google
