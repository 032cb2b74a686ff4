// Command doctor reports the Google integration status of the voice
// assistant: which credentials are present, which integrations are enabled,
// and whether the assistant runs against the real APIs or in mock mode.
// Missing configuration is a finding, not a failure; the command always
// exits 0.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"

	"github.com/voicedesk/google-mcp-server/auth"
	"github.com/voicedesk/google-mcp-server/config"
	"github.com/voicedesk/google-mcp-server/diagnose"
)

func main() {
	openConsole := flag.Bool("open", false, "open the Google Cloud credentials console in a browser")
	flag.Parse()

	_ = godotenv.Load()

	report := diagnose.Evaluate(config.Load())
	report.Render(os.Stdout)

	if *openConsole {
		if err := browser.OpenURL(auth.CredentialsConsoleURL); err != nil {
			fmt.Fprintf(os.Stderr, "failed to open browser: %v\n", err)
		}
	}
}
