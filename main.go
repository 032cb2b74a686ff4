package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/voicedesk/google-mcp-server/auth"
	"github.com/voicedesk/google-mcp-server/calendar"
	"github.com/voicedesk/google-mcp-server/config"
	"github.com/voicedesk/google-mcp-server/docs"
	"github.com/voicedesk/google-mcp-server/gmail"
	"github.com/voicedesk/google-mcp-server/localstore"
	"github.com/voicedesk/google-mcp-server/secrets"
	"github.com/voicedesk/google-mcp-server/server"
	"github.com/voicedesk/google-mcp-server/sheets"
)

// serviceInitTimeout bounds each Google client construction at startup.
const serviceInitTimeout = 5 * time.Second

// Settings are the runtime knobs of the server binary, separate from the
// integration contract resolved by the config package.
type Settings struct {
	Dev    bool   `envconfig:"DEV"`
	DBPath string `envconfig:"DB_PATH" default:"data/voicedesk.db"`
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println("voicedesk-google-mcp-server v" + server.VERSION)
		return
	}

	_ = godotenv.Load()

	var settings Settings
	if err := envconfig.Process("", &settings); err != nil {
		fmt.Fprintln(os.Stderr, "failed to read settings:", err)
		os.Exit(1)
	}

	logger := mustLogger(settings.Dev)

	if err := run(context.Background(), settings, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// mustLogger builds the process logger. Stdout belongs to the MCP stream,
// so logs always go to stderr.
func mustLogger(dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func run(ctx context.Context, settings Settings, logger *slog.Logger) error {
	cfg := config.Load()
	srv := server.NewMCPServer(logger)

	if cfg.OAuth.Configured() {
		creds, err := secrets.NewResolver().ResolveCredentials(ctx, cfg.OAuth)
		if err != nil {
			return fmt.Errorf("failed to resolve credentials: %w", err)
		}

		authClient, err := auth.NewClient(ctx, creds)
		if err != nil {
			return fmt.Errorf("failed to create OAuth client: %w", err)
		}
		if err := authClient.Verify(ctx); err != nil {
			return fmt.Errorf("failed to verify OAuth credentials: %w", err)
		}

		logger.Info("OAuth credentials configured, using the real Google APIs")
		registerReal(ctx, srv, cfg, authClient, logger)
	} else {
		store, err := localstore.Open(settings.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer func() { _ = store.Close() }()

		logger.Info("OAuth credentials not configured, running in mock mode",
			"db_path", settings.DBPath)
		registerMock(srv, cfg, store, logger)
	}

	return srv.Run(ctx)
}

// registerReal wires each enabled integration to its Google API client. A
// client that fails to initialize is skipped so the remaining services
// still serve.
func registerReal(ctx context.Context, srv *server.MCPServer, cfg *config.Config, authClient *auth.Client, logger *slog.Logger) {
	opt := authClient.GetClientOption(ctx)

	if cfg.Google.Calendar.Enabled {
		initCtx, cancel := context.WithTimeout(ctx, serviceInitTimeout)
		client, err := calendar.NewClient(initCtx, cfg.Google.Calendar.CalendarID, opt)
		cancel()
		if err != nil {
			logger.Error("failed to initialize calendar client", "error", err)
		} else {
			srv.RegisterService("calendar", calendar.NewHandler(client))
		}
	}

	if cfg.Google.Docs.Enabled {
		var handlers []server.ServiceHandler

		initCtx, cancel := context.WithTimeout(ctx, serviceInitTimeout)
		sheetsClient, err := sheets.NewClient(initCtx, cfg.Google.Docs.SpreadsheetID, cfg.Google.Docs.SheetName, opt)
		cancel()
		if err != nil {
			logger.Error("failed to initialize sheets client", "error", err)
		} else {
			handlers = append(handlers, sheets.NewHandler(sheetsClient))
		}

		initCtx, cancel = context.WithTimeout(ctx, serviceInitTimeout)
		docsClient, err := docs.NewClient(initCtx, opt)
		cancel()
		if err != nil {
			logger.Error("failed to initialize docs client", "error", err)
		} else {
			handlers = append(handlers, docs.NewHandler(docsClient, cfg.Google.Docs.DocID))
		}

		if len(handlers) > 0 {
			srv.RegisterService("prebookings", server.Combine(handlers...))
		}
	}

	if cfg.Google.Gmail.Enabled {
		initCtx, cancel := context.WithTimeout(ctx, serviceInitTimeout)
		client, err := gmail.NewClient(initCtx, opt)
		cancel()
		if err != nil {
			logger.Error("failed to initialize gmail client", "error", err)
		} else {
			srv.RegisterService("gmail", gmail.NewHandler(client, cfg.Google.Gmail.AdvisorEmail))
		}
	}
}

// registerMock wires every enabled integration to its local stand-in.
func registerMock(srv *server.MCPServer, cfg *config.Config, store *localstore.Store, logger *slog.Logger) {
	if cfg.Google.Calendar.Enabled {
		srv.RegisterService("calendar", calendar.NewHandler(calendar.NewMock(store, logger)))
	}

	if cfg.Google.Docs.Enabled {
		srv.RegisterService("prebookings", server.Combine(
			sheets.NewHandler(sheets.NewMock(store, logger)),
			docs.NewHandler(docs.NewMock(store, logger), cfg.Google.Docs.DocID),
		))
	}

	if cfg.Google.Gmail.Enabled {
		srv.RegisterService("gmail", gmail.NewHandler(gmail.NewMock(store, logger), cfg.Google.Gmail.AdvisorEmail))
	}
}
