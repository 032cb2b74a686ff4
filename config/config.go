package config

import (
	"os"

	"github.com/voicedesk/google-mcp-server/auth"
)

// Environment variable names recognized by the resolver.
const (
	EnvClientID      = "GOOGLE_CLIENT_ID"
	EnvClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvRefreshToken  = "GOOGLE_REFRESH_TOKEN"
	EnvRedirectURI   = "GOOGLE_REDIRECT_URI"
	EnvCalendarID    = "GOOGLE_CALENDAR_ID"
	EnvCalendarFlag  = "GOOGLE_CALENDAR_ENABLED"
	EnvSpreadsheetID = "GOOGLE_SHEETS_PRE_BOOKINGS_SPREADSHEET_ID"
	EnvSheetName     = "GOOGLE_SHEETS_SHEET_NAME"
	EnvDocID         = "GOOGLE_DOCS_PRE_BOOKINGS_DOC_ID"
	EnvDocsFlag      = "GOOGLE_DOCS_ENABLED"
	EnvAdvisorEmail  = "ADVISOR_EMAIL"
	EnvGmailFlag     = "GMAIL_ENABLED"
)

// Defaults applied when an identifier variable is unset. The spreadsheet ID
// has no fallback: mock mode keeps pre-bookings locally, and real mode warns
// that sheet writes will not occur.
const (
	DefaultCalendarID   = "primary"
	DefaultSheetName    = "Sheet1"
	DefaultDocID        = "pre-bookings-doc-id"
	DefaultAdvisorEmail = "advisor@example.com"
)

// Config represents the resolved integration configuration
type Config struct {
	OAuth  auth.Credentials `json:"oauth"`
	Google GoogleConfig     `json:"google"`
}

// GoogleConfig groups the per-integration settings for the booking assistant
type GoogleConfig struct {
	Calendar CalendarConfig `json:"calendar"`
	Docs     DocsConfig     `json:"docs"`
	Gmail    GmailConfig    `json:"gmail"`
}

// CalendarConfig represents the booking calendar integration
type CalendarConfig struct {
	CalendarID string `json:"calendar_id"`
	Enabled    bool   `json:"enabled"`
}

// DocsConfig represents the pre-bookings recorder: a spreadsheet for rows
// and a document for notes, toggled together by one flag.
type DocsConfig struct {
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	SheetName     string `json:"sheet_name"`
	DocID         string `json:"doc_id"`
	Enabled       bool   `json:"enabled"`
}

// GmailConfig represents the advisor notification integration
type GmailConfig struct {
	AdvisorEmail string `json:"advisor_email"`
	Enabled      bool   `json:"enabled"`
}

// LookupFunc reports the value of a named variable and whether it is set.
// os.LookupEnv satisfies it; tests pass map-backed lookups.
type LookupFunc func(key string) (string, bool)

// Load resolves the configuration from the process environment. It never
// fails: missing variables resolve to their documented defaults.
func Load() *Config {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom resolves the configuration through lookup. Identifier values are
// passed through verbatim with no format validation; a malformed identifier
// surfaces only when the integration that uses it makes its first call.
func LoadFrom(lookup LookupFunc) *Config {
	return &Config{
		OAuth: auth.Credentials{
			ClientID:     get(lookup, EnvClientID, ""),
			ClientSecret: get(lookup, EnvClientSecret, ""),
			RefreshToken: get(lookup, EnvRefreshToken, ""),
			RedirectURI:  get(lookup, EnvRedirectURI, ""),
		},
		Google: GoogleConfig{
			Calendar: CalendarConfig{
				CalendarID: get(lookup, EnvCalendarID, DefaultCalendarID),
				Enabled:    enabled(lookup, EnvCalendarFlag),
			},
			Docs: DocsConfig{
				SpreadsheetID: get(lookup, EnvSpreadsheetID, ""),
				SheetName:     get(lookup, EnvSheetName, DefaultSheetName),
				DocID:         get(lookup, EnvDocID, DefaultDocID),
				Enabled:       enabled(lookup, EnvDocsFlag),
			},
			Gmail: GmailConfig{
				AdvisorEmail: get(lookup, EnvAdvisorEmail, DefaultAdvisorEmail),
				Enabled:      enabled(lookup, EnvGmailFlag),
			},
		},
	}
}

// ParseEnabled interprets an integration flag value. Integrations are
// opt-out: the only disabling value is the literal string "false". Anything
// else, including "0", "no" and the empty string, leaves the integration
// enabled.
func ParseEnabled(raw string) bool {
	return raw != "false"
}

func get(lookup LookupFunc, key, fallback string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return fallback
}

func enabled(lookup LookupFunc, key string) bool {
	v, _ := lookup(key)
	return ParseEnabled(v)
}
