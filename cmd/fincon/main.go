package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/fincon/fincon/pkg/config"
	"github.com/fincon/fincon/pkg/ui"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fincon",
		Short: "Interactive admin console for the FinOps For Cloud backend",
		Long: `fincon is a terminal console for administering a multi-tenant
billing backend: affiliates, organizations, entitlements, charges,
users, and API tokens.

Credentials and the active account are stored in ~/.fincon/config.yaml.
Set FINCON_LOG_FILE to redirect the debug log.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	// Local .env overrides are optional.
	_ = godotenv.Load()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("fincon is interactive and needs a terminal")
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if url := os.Getenv("FINCON_API_URL"); url != "" {
		cfg.SetURL(url)
	}

	app := ui.NewApp(cfg, log)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running console: %w", err)
	}
	if app.ExitCode != 0 {
		log.Info("exiting", zap.Int("code", app.ExitCode))
		os.Exit(app.ExitCode)
	}
	return nil
}

// newLogger writes a development-formatted log to FINCON_LOG_FILE, or
// ~/.fincon/fincon.log. The terminal is owned by the UI, so nothing is
// ever logged to stderr.
func newLogger() (*zap.Logger, error) {
	path := os.Getenv("FINCON_LOG_FILE")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".fincon", "fincon.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
