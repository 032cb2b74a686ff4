// Command smoketest drives a running voice-session backend through an
// exploratory conversation and a scripted booking flow, printing one line
// per check. It exits 1 when the backend is unreachable or any check fails.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/voicedesk/google-mcp-server/smoke"
	"github.com/voicedesk/google-mcp-server/voice"
)

// Settings are the runtime knobs of the smoketest binary.
type Settings struct {
	BaseURL string `envconfig:"VOICE_API_BASE_URL" default:"http://localhost:3000"`
	Dev     bool   `envconfig:"DEV"`
}

func main() {
	_ = godotenv.Load()

	var settings Settings
	if err := envconfig.Process("", &settings); err != nil {
		fmt.Fprintln(os.Stderr, "failed to read settings:", err)
		os.Exit(1)
	}

	if err := run(context.Background(), settings, mustLogger(settings.Dev)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// mustLogger builds the process logger. Check output goes to stdout; logs
// stay on stderr.
func mustLogger(dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func run(ctx context.Context, settings Settings, logger *slog.Logger) error {
	client := voice.NewClient(settings.BaseURL, nil)
	runner := smoke.NewRunner(client, logger, os.Stdout)

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if !summary.Ok() {
		return fmt.Errorf("%d of %d checks failed", summary.Failed, summary.Total)
	}
	return nil
}
