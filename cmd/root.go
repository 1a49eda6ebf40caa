// Package cmd implements the savearn CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/savearn/internal/config"
	"github.com/theirongolddev/savearn/internal/identity"
	"github.com/theirongolddev/savearn/internal/ledger"
	"github.com/theirongolddev/savearn/internal/logging"
	"github.com/theirongolddev/savearn/internal/state"
	"github.com/theirongolddev/savearn/internal/store"
	"github.com/theirongolddev/savearn/internal/store/pgstore"

	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagUser    string
	flagBackend string
	flagEnvFile string
	flagQuiet   bool
	flagVerbose bool
)

// Populated by PersistentPreRunE before any command runs.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "savearn",
	Short: "Smart-choice savings tracker",
	Long: "Log the times you picked the cheaper option and see what you earned:\n" +
		"totals, daily streaks, and daily, category and monthly breakdowns.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User id whose entries to use")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: file, sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only print errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// loadConfig resolves .env, the config file, env overrides and flags, in
// that order, and sets up logging.
func loadConfig(_ *cobra.Command, _ []string) error {
	return initRuntime(true)
}

// initRuntime fills cfg and logger. With strict unset, an invalid
// configuration is reported but still used, so setup can repair it.
func initRuntime(strict bool) error {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return err
	}
	c, err := config.Load()
	if err != nil && strict {
		return err
	}

	if flagDataDir != "" {
		c.General.DataDir = flagDataDir
	}
	if flagUser != "" {
		c.General.UserID = flagUser
	}
	if flagBackend != "" {
		c.Storage.Backend = flagBackend
	}
	switch {
	case flagVerbose:
		c.Log.Level = "debug"
	case flagQuiet:
		c.Log.Level = "error"
	}

	if err := c.Validate(); err != nil {
		if strict {
			return err
		}
		fmt.Fprintf(os.Stderr, "  %v\n\n", err)
	}

	l, err := logging.New(logging.Options{Level: c.Log.Level, Format: c.Log.Format})
	if err != nil {
		if strict {
			return err
		}
		l, _ = logging.New(logging.Options{Level: "warn"})
	}
	slog.SetDefault(l)

	cfg = c
	logger = logging.Component(l, logging.ComponentCLI)
	return nil
}

// openSnapshots opens the snapshot store for the configured backend.
// The returned func releases it.
func openSnapshots(ctx context.Context) (state.SnapshotStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case config.BackendPostgres:
		pg, err := pgstore.Open(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	default:
		return store.NewFileSnapshots(cfg.DataDir()), func() {}, nil
	}
}

// openRepository opens the entry table used by the API. The file backend has
// no entry table, so it shares the sqlite database under the data dir.
func openRepository(ctx context.Context) (ledger.Repository, func(), error) {
	if cfg.Storage.Backend == config.BackendPostgres {
		pg, err := pgstore.Open(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	}
	db, err := store.OpenSQLite(cfg.SQLitePath())
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

// openSession hydrates the configured user's local state.
func openSession(ctx context.Context) (*state.Session, func(), error) {
	st, release, err := openSnapshots(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("session opened", logging.FieldUser, cfg.General.UserID, "backend", cfg.Storage.Backend)
	sess := state.Open(ctx, st, cfg.General.UserID,
		state.WithLogger(logging.Component(slog.Default(), logging.ComponentState)))
	return sess, release, nil
}

// newDirectory builds the identity lookup: static profiles from the config
// first, then the remote directory when one is configured.
func newDirectory() identity.Directory {
	var chain identity.Chain
	if len(cfg.Identity.Users) > 0 {
		profiles := make([]identity.Profile, 0, len(cfg.Identity.Users))
		for _, u := range cfg.Identity.Users {
			profiles = append(profiles, identity.Profile{
				UserID:        u.ID,
				Email:         u.Email,
				Name:          u.Name,
				EmailVerified: u.EmailVerified,
				Status:        u.Status,
			})
		}
		chain = append(chain, identity.NewStaticDirectory(profiles...))
	}
	if d := identity.NewHTTPDirectory(cfg.Identity.BaseURL, cfg.Identity.APIKey); d != nil {
		chain = append(chain, d)
	}
	return chain
}

// say prints progress output unless --quiet was given.
func say(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf(format, args...)
}
