package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/history"
)

// NewHistoryCommand creates and returns the history subcommand
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past coverage runs",
		Long: `List previously recorded coverage runs, newest first.

Runs are recorded by 'covgate check' when history is enabled in the
configuration (the default). Each row shows the run's timestamp, the
four metric percentages, how the data was obtained, and the verdict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			cfg, err := config.LoadConfigFromDir(root)
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("run history is disabled in configuration")
			}

			dbPath := filepath.Join(root, cfg.History.DBPath)
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			store, err := history.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tLINES\tFUNCS\tBRANCH\tSTMTS\tSOURCE\tRESULT")
			for _, run := range runs {
				verdict := "PASS"
				if !run.Passed {
					verdict = "FAIL"
				}
				fmt.Fprintf(w, "%s\t%d%%\t%d%%\t%d%%\t%d%%\t%s\t%s\n",
					run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.Lines, run.Functions, run.Branches, run.Statements,
					run.Source, verdict)
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show (0 for all)")

	return cmd
}
