package common

import "strings"

// GetUserKeyFromArgs extracts the acting user's key from request
// arguments. Returns "" when no user key was provided; callers decide
// whether that is an error.
func GetUserKeyFromArgs(args map[string]interface{}) string {
	if v, ok := args["user_key"].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
