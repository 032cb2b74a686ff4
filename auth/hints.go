package auth

import (
	"fmt"
	"strings"
)

// CredentialsConsoleURL is where OAuth clients for this project are managed.
const CredentialsConsoleURL = "https://console.cloud.google.com/apis/credentials"

// HandleServiceError rewrites well-known Google API failures into errors
// that tell the operator what to do. Unknown errors pass through unchanged.
func HandleServiceError(err error, service string) error {
	if err == nil {
		return nil
	}

	if IsAPIDisabledError(err) {
		return fmt.Errorf(
			"Google %s API is not enabled for this project.\n\n"+
				"To fix this:\n"+
				"1. Enable the API at: %s\n"+
				"2. Wait a few minutes for the change to propagate\n"+
				"3. Restart the assistant",
			titleCase(service), getAPIEnableURL(service),
		)
	}

	if isInsufficientPermissionsError(err) {
		return fmt.Errorf(
			"Insufficient permissions for the %s API.\n\n"+
				"This error usually means:\n"+
				"- The refresh token was minted without the required OAuth scopes\n"+
				"- The API is not enabled in your project\n"+
				"- The account does not have access to the resource\n\n"+
				"To fix this:\n"+
				"1. Mint a new refresh token authorizing all requested scopes\n"+
				"2. Update GOOGLE_REFRESH_TOKEN and restart the assistant",
			titleCase(service),
		)
	}

	return err
}

// IsAPIDisabledError reports whether err is Google's "API not enabled"
// rejection.
func IsAPIDisabledError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "accessNotConfigured") ||
		strings.Contains(errStr, "SERVICE_DISABLED") ||
		strings.Contains(errStr, "has not been used in project") ||
		strings.Contains(errStr, "it is disabled")
}

func getAPIEnableURL(service string) string {
	urls := map[string]string{
		"calendar": "https://console.cloud.google.com/apis/library/calendar-json.googleapis.com",
		"gmail":    "https://console.cloud.google.com/apis/library/gmail.googleapis.com",
		"sheets":   "https://console.cloud.google.com/apis/library/sheets.googleapis.com",
		"docs":     "https://console.cloud.google.com/apis/library/docs.googleapis.com",
	}

	if url, ok := urls[service]; ok {
		return url
	}
	return "https://console.cloud.google.com/apis/library"
}

func isInsufficientPermissionsError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "403") &&
		(strings.Contains(errStr, "insufficientPermissions") ||
			strings.Contains(errStr, "Insufficient Permission") ||
			strings.Contains(errStr, "PERMISSION_DENIED"))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
