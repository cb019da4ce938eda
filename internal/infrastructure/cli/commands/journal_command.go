package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/rigup/internal/app"
	"github.com/doeshing/rigup/internal/domain"
)

const msgNoJournalRecorded = "No operations journaled yet."

// NewJournalCommand creates the journal command with all subcommands.
func NewJournalCommand(container *app.Container) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the guarded-operation journal",
	}

	journalCmd.AddCommand(
		newJournalListCommand(container),
		newJournalClearCommand(container),
		newJournalExportCommand(container),
	)

	return journalCmd
}

func newJournalListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent guarded operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listJournalEntries(cmd.OutOrStdout(), container, limit, search)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultJournalLimit, "Max entries to show")
	cmd.Flags().StringVar(&search, "search", "", "Filter by command or stage substring")
	return cmd
}

func newJournalClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.Journal.Clear()
		},
	}
}

func newJournalExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the journal to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.Journal.ExportJSON(args[0])
		},
	}
}

func listJournalEntries(out io.Writer, container *app.Container, limit int, search string) error {
	records, err := container.Journal.Records(limit, search)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, msgNoJournalRecorded)
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  [%s/%s] %s  %s\n",
			humanize.Time(rec.Timestamp), rec.Mode, rec.Tier, describeResult(rec), rec.Command)
	}
	return nil
}

func describeResult(rec domain.JournalRecord) string {
	switch {
	case !rec.Executed:
		return "simulated"
	case rec.Success:
		return "ok"
	default:
		return fmt.Sprintf("failed (exit %d)", rec.ExitCode)
	}
}
