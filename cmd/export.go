package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/savearn/internal/export"
	"github.com/theirongolddev/savearn/internal/pipeline"
	"github.com/theirongolddev/savearn/internal/state"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOutput string
	flagImportFormat string
	flagImportMode   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries to CSV, XLSX or a JSON snapshot",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from CSV or a JSON snapshot",
	Long: "CSV rows are added as new entries. A JSON snapshot replaces all data\n" +
		"unless --mode append is given.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "", "csv, xlsx or json (default from the output extension, else csv)")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default stdout; xlsx needs a file)")
	importCmd.Flags().StringVarP(&flagImportFormat, "format", "f", "", "csv or json (default from the file extension)")
	importCmd.Flags().StringVar(&flagImportMode, "mode", "replace", "For json: replace or append")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func formatOf(flag, path string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		return ext
	}
	return "csv"
}

func runExport(cmd *cobra.Command, _ []string) error {
	format := formatOf(flagExportFormat, flagExportOutput)
	if format == "xlsx" && flagExportOutput == "" {
		return fmt.Errorf("xlsx export needs --output")
	}

	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	var w io.Writer = os.Stdout
	if flagExportOutput != "" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	entries := pipeline.SortNewestFirst(sess.Entries())
	switch format {
	case "csv":
		err = export.WriteCSV(w, entries)
	case "xlsx":
		err = export.WriteXLSX(w, export.Workbook{
			Entries:    entries,
			Categories: sess.CategoryStats(),
			Months:     sess.MonthlyStats(),
		})
	case "json":
		err = export.WriteSnapshot(w, sess.State())
	default:
		return fmt.Errorf("unknown export format %q: want csv, xlsx or json", format)
	}
	if err != nil {
		return err
	}

	if flagExportOutput != "" {
		say("  Exported %d entries to %s\n", len(entries), flagExportOutput)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path) //nolint:gosec // path given by the local user
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	switch formatOf(flagImportFormat, path) {
	case "csv":
		inputs, err := export.ReadCSV(f)
		if err != nil {
			return describeFailure(err)
		}
		for _, in := range inputs {
			if _, err := sess.Add(cmd.Context(), in); err != nil {
				return describeFailure(err)
			}
		}
		say("  Imported %d entries from %s\n", len(inputs), path)

	case "json":
		snap, err := export.ReadSnapshot(f)
		if err != nil {
			return err
		}
		entries := snap.Entries
		if flagImportMode == "append" {
			entries = append(sess.Entries(), snap.Entries...)
		} else if flagImportMode != "replace" {
			return fmt.Errorf("unknown import mode %q: want replace or append", flagImportMode)
		}
		// Totals in the file are not trusted; derive them from the entries.
		if err := sess.Restore(cmd.Context(), state.Rebuild(entries, time.Now())); err != nil {
			return describeFailure(err)
		}
		say("  Imported %d entries from %s (%s)\n", len(snap.Entries), path, flagImportMode)

	default:
		return fmt.Errorf("cannot import %s: want a .csv or .json file", path)
	}
	return nil
}
