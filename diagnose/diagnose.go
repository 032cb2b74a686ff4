// Package diagnose classifies the assistant's Google integration readiness
// and renders the operator-facing status report.
package diagnose

import (
	"fmt"
	"io"

	"github.com/voicedesk/google-mcp-server/auth"
	"github.com/voicedesk/google-mcp-server/config"
)

// Status grades one report line.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarn    Status = "warn"
	StatusMissing Status = "missing"
)

// Mode is the OAuth readiness classification.
type Mode string

const (
	// ModeReal means the credential set is complete and Google clients
	// talk to the real APIs.
	ModeReal Mode = "real API mode"
	// ModeMock means credentials are incomplete and Google calls are
	// stubbed to local stand-ins.
	ModeMock Mode = "mock mode"
)

// Check is one line of the report.
type Check struct {
	Section string `json:"section"`
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
}

// Report is the full diagnostic model. Evaluate never fails; rendering is
// purely informational and the doctor binary always exits zero.
type Report struct {
	Mode        Mode     `json:"mode"`
	Configured  bool     `json:"configured"`
	Checks      []Check  `json:"checks"`
	Warnings    []string `json:"warnings,omitempty"`
	Remediation []string `json:"remediation,omitempty"`
}

// Evaluate builds the report from an already-resolved configuration. It
// never reads the environment itself.
func Evaluate(cfg *config.Config) *Report {
	configured := cfg.OAuth.Configured()

	r := &Report{
		Mode:       ModeMock,
		Configured: configured,
	}
	if configured {
		r.Mode = ModeReal
	}

	r.Checks = append(r.Checks,
		credentialCheck(config.EnvClientID, cfg.OAuth.ClientID, false),
		credentialCheck(config.EnvClientSecret, cfg.OAuth.ClientSecret, false),
		credentialCheck(config.EnvRefreshToken, cfg.OAuth.RefreshToken, false),
		credentialCheck(config.EnvRedirectURI, cfg.OAuth.RedirectURI, true),
	)

	r.Checks = append(r.Checks,
		integrationCheck("Calendar", cfg.Google.Calendar.Enabled, config.EnvCalendarFlag),
		Check{Section: "Calendar", Name: "calendar ID", Status: StatusOK, Detail: cfg.Google.Calendar.CalendarID},
	)

	r.Checks = append(r.Checks, integrationCheck("Sheets", cfg.Google.Docs.Enabled, config.EnvDocsFlag))
	switch {
	case cfg.Google.Docs.SpreadsheetID != "":
		r.Checks = append(r.Checks, Check{Section: "Sheets", Name: "spreadsheet ID", Status: StatusOK, Detail: cfg.Google.Docs.SpreadsheetID})
	case configured:
		r.Checks = append(r.Checks, Check{Section: "Sheets", Name: "spreadsheet ID", Status: StatusWarn, Detail: "not set"})
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("%s is not set: pre-booking sheet writes will not occur", config.EnvSpreadsheetID))
	default:
		r.Checks = append(r.Checks, Check{Section: "Sheets", Name: "spreadsheet ID", Status: StatusMissing, Detail: "not set"})
	}
	r.Checks = append(r.Checks,
		Check{Section: "Sheets", Name: "sheet name", Status: StatusOK, Detail: cfg.Google.Docs.SheetName},
		Check{Section: "Docs", Name: "pre-bookings doc ID", Status: StatusOK, Detail: cfg.Google.Docs.DocID},
	)

	r.Checks = append(r.Checks,
		integrationCheck("Gmail", cfg.Google.Gmail.Enabled, config.EnvGmailFlag),
		Check{Section: "Gmail", Name: "advisor email", Status: StatusOK, Detail: cfg.Google.Gmail.AdvisorEmail},
	)

	if !configured {
		r.Remediation = remediationSteps()
	}

	return r
}

func credentialCheck(name, value string, optional bool) Check {
	c := Check{Section: "OAuth", Name: name}
	switch {
	case value != "":
		c.Status = StatusOK
		c.Detail = "set"
	case optional:
		c.Status = StatusOK
		c.Detail = "not set (optional)"
	default:
		c.Status = StatusMissing
		c.Detail = "not set"
	}
	return c
}

func integrationCheck(section string, enabled bool, flag string) Check {
	if enabled {
		return Check{Section: section, Name: "integration", Status: StatusOK, Detail: "enabled"}
	}
	return Check{Section: section, Name: "integration", Status: StatusWarn, Detail: fmt.Sprintf("disabled (%s=false)", flag)}
}

// The checklist is fixed: console URL, the three variable names, restart.
func remediationSteps() []string {
	return []string{
		`Create an OAuth client (type "Web application") at ` + auth.CredentialsConsoleURL,
		fmt.Sprintf("Set %s, %s and %s in the environment or the .env file",
			config.EnvClientID, config.EnvClientSecret, config.EnvRefreshToken),
		"Restart the assistant so the new credentials are picked up",
	}
}

// Render writes the human-readable report.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintln(w, "voicedesk google integration status")
	fmt.Fprintln(w)
	if r.Configured {
		fmt.Fprintf(w, "OAuth credentials: configured, running in %s\n", r.Mode)
	} else {
		fmt.Fprintf(w, "OAuth credentials: not configured, running in %s\n", r.Mode)
	}

	section := ""
	for _, c := range r.Checks {
		if c.Section != section {
			section = c.Section
			fmt.Fprintf(w, "\n%s\n", section)
		}
		fmt.Fprintf(w, "  [%-7s] %s", c.Status, c.Name)
		if c.Detail != "" {
			fmt.Fprintf(w, ": %s", c.Detail)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "warning: %s\n", warn)
		}
	}

	if len(r.Remediation) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "To use the real Google APIs:")
		for i, step := range r.Remediation {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
}
