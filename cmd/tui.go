package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/savearn/internal/logging"
	"github.com/theirongolddev/savearn/internal/tui"
	"github.com/theirongolddev/savearn/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagTUIDays    int
	flagTUILogFile string
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"dash"},
	Short:   "Launch the interactive dashboard",
	RunE:    runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&flagTUIDays, "days", "n", 0, "Days in the daily chart (default from config)")
	tuiCmd.Flags().StringVar(&flagTUILogFile, "log-file", "", "Write logs here while the dashboard owns the terminal")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	st, release, err := openSnapshots(cmd.Context())
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	defer release()

	// stderr belongs to the alt screen; logs go to a file or nowhere.
	tuiLog := logging.Discard()
	if flagTUILogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagTUILogFile), 0o755); err != nil {
			return fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(flagTUILogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		if tuiLog, err = logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: f}); err != nil {
			return err
		}
	}

	days := flagTUIDays
	if days <= 0 {
		days = cfg.General.DefaultDays
	}

	theme.SetActive(cfg.Appearance.Theme)
	// Without a forced profile lipgloss may fall back to no color and the
	// background fills disappear.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Store:  st,
		User:   cfg.General.UserID,
		Days:   days,
		Logger: logging.Component(tuiLog, logging.ComponentState),
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
