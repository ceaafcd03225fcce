// ABOUTME: Root Cobra command for the salesquest CLI.
// ABOUTME: Loads config, logger, storage, and the startup session via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/salesquest/internal/app"
	"github.com/harperreed/salesquest/internal/config"
	"github.com/harperreed/salesquest/internal/logging"
	"github.com/harperreed/salesquest/internal/storage"
	"github.com/spf13/cobra"
)

// annotationNoStorage marks commands that run without opening storage.
const annotationNoStorage = "salesquest/no-storage"

var (
	version = "dev"

	cfg     *config.Config
	logger  = logging.Nop()
	kvStore storage.KV
	session *app.Session

	// now is the clock for the gate and store; tests replace it.
	now = time.Now

	backendFlag string
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:     "salesquest",
	Short:   "90-day real-estate sales activity tracker",
	Version: version,
	Long: `SalesQuest tracks daily contacts and appointments across a 90-day sales program.

WHAT IT TRACKS:

  Contacts       people you reached out to on a program day
  Appointments   appointments you set on a program day

  Days are numbered 1 to 90 from the start of your program, not calendar dates.
  The 90 days roll up into 13 weeks; week 13 covers days 85-90.

QUICK START:

  $ salesquest set contact 1 12        # 12 contacts on day 1
  $ salesquest set appt 1 2            # 2 appointments on day 1
  $ salesquest show                    # Grid colored by your daily goal
  $ salesquest totals                  # Program totals
  $ salesquest weekly                  # 13-week rollup

TRIAL AND SUBSCRIPTION:

  The first run starts a 7-day free trial with full access. After it ends,
  export, print, and premium themes need a subscription.

  $ salesquest status                  # Trial days left / premium status
  $ salesquest subscribe               # Purchase link

EXPORT:

  $ salesquest export json -o sales_quest_data.json
  $ salesquest export html -o report.html   # Printable report

STORAGE:

  Data lives in SQLite at ~/.local/share/salesquest/salesquest.db by default.
  Set "backend" in ~/.config/salesquest/config.json (or SALESQUEST_BACKEND)
  to sqlite, badger, or charm for encrypted cloud sync.

MCP INTEGRATION:

  Run 'salesquest mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "salesquest": { "command": "salesquest", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if backendFlag != "" {
			cfg.Backend = backendFlag
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(os.Stderr, cfg.GetLogLevel(), cfg.LogPretty)
		if err != nil {
			return err
		}

		if skipStorage(cmd) {
			return nil
		}

		kvStore, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		logger.Debug().Str("backend", cfg.GetBackend()).Str("data_dir", cfg.GetDataDir()).Msg("storage opened")

		session = app.Start(cmd.Context(), kvStore, logger, now)
		warnStartup(cmd.ErrOrStderr(), session)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStorage()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: sqlite, badger, or charm (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (overrides config)")
}

func skipStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoStorage] == "true" {
			return true
		}
	}
	return cmd.Name() == "help" || cmd.Name() == "version"
}

func noStorage() map[string]string {
	return map[string]string{annotationNoStorage: "true"}
}

func closeStorage() error {
	session = nil
	if kvStore == nil {
		return nil
	}
	err := kvStore.Close()
	kvStore = nil
	return err
}

// warnStartup reports degraded startup without failing the command.
func warnStartup(w io.Writer, s *app.Session) {
	if s.StatusErr != nil {
		fmt.Fprintln(w, color.YellowString("⚠ Could not read subscription status; running with limited access."))
	}
	if s.LoadErr != nil {
		fmt.Fprintln(w, color.YellowString("⚠ Could not load saved progress; starting from zero."))
	}
	if s.PrefsErr != nil {
		fmt.Fprintln(w, color.YellowString("⚠ Could not load options; using defaults."))
	}
	if s.Status.JustStarted && !s.Status.IsPremium {
		fmt.Fprintln(w, color.GreenString("✓ Your 7-day free trial has started."))
	}
}
