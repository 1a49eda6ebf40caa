package cmd

import (
	"fmt"

	"github.com/theirongolddev/savearn/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func orUnset(s string) string {
	if s == "" {
		return "not configured"
	}
	return s
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    User:          %s\n", cfg.General.UserID)
	fmt.Printf("    Data dir:      %s\n", cfg.DataDir())
	fmt.Printf("    Default days:  %d\n", cfg.General.DefaultDays)
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Backend:       %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		fmt.Printf("    SQLite file:   %s\n", cfg.SQLitePath())
	case config.BackendPostgres:
		// The DSN carries a password; show only its tail.
		fmt.Printf("    Postgres DSN:  %s\n", config.Mask(cfg.Storage.PostgresDSN))
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    JWT secret:    %s\n", orUnset(config.Mask(cfg.Server.JWTSecret)))
	fmt.Printf("    Anonymous:     %v", cfg.Server.AllowAnonymous)
	if cfg.Server.AllowAnonymous {
		fmt.Printf(" (as %q)", cfg.Server.AnonymousUser)
	}
	fmt.Println()
	fmt.Printf("    Page size:     %d (max %d)\n", cfg.Server.DefaultPageSize, cfg.Server.MaxPageSize)
	fmt.Println()

	fmt.Println("  [Identity]")
	fmt.Printf("    Directory:     %s\n", orUnset(cfg.Identity.BaseURL))
	fmt.Printf("    API key:       %s\n", orUnset(config.Mask(cfg.Identity.APIKey)))
	fmt.Printf("    Static users:  %d\n", len(cfg.Identity.Users))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:         %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:         %s\n", cfg.Log.Level)
	fmt.Printf("    Format:        %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  Run `savearn setup` to reconfigure.")
	return nil
}
