package google

// DefaultOAuthScopes are the Google OAuth scopes the calendar backend
// requires. The scope set is intentionally minimal: reading events for
// availability and writing reservations both fall under the single
// calendar scope.
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}
