package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/identity"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the current user's profile from the identity directory",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	p, err := newDirectory().FetchProfile(ctx, cfg.General.UserID)
	switch {
	case errors.Is(err, identity.ErrNotConfigured):
		return errors.New("no identity directory configured: set identity.base_url or add [[identity.users]] to the config")
	case errors.Is(err, identity.ErrUserNotFound):
		return fmt.Errorf("user %q not found in the identity directory", cfg.General.UserID)
	case err != nil:
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROFILE"))
	fmt.Println()

	verified := "no"
	if p.EmailVerified {
		verified = "yes"
	}
	rows := [][]string{
		{"User ID", p.UserID},
		{"Name", p.Name},
		{"Email", p.Email},
		{"Verified", verified},
		{"Status", p.Status},
	}
	if !p.CreatedAt.IsZero() {
		rows = append(rows, []string{"Created", p.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	if !p.LastModified.IsZero() {
		rows = append(rows, []string{"Modified", p.LastModified.Local().Format("2006-01-02 15:04")})
	}
	fmt.Print(cli.RenderTable(cli.Table{Rows: rows}))
	return nil
}
