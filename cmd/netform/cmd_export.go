package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/collabsim/netform/internal/store"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Export a run's trial records as CSV",
		Long: `Export a run's trial records as CSV.

Without a run id, the most recent run is exported. Output goes to stdout
unless --out names a file.

Examples:
  netform export                        # latest run to stdout
  netform export 01J8... --out run.csv  # specific run to a file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			s, err := store.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			var runID string
			if len(args) == 1 {
				runID = args[0]
			} else {
				runs, err := s.ListRuns(ctx)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					return fmt.Errorf("no runs in %s", dbPath)
				}
				runID = runs[0].ID
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return store.ExportCSV(ctx, s, runID, w)
		},
	}

	cmd.Flags().String("out", "", "Write CSV to this file instead of stdout")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			s, err := store.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %s  %d trials\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Trials)
			}
			return nil
		},
	}
}
