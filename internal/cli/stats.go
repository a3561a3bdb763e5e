package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/comalice/fixedloop/internal/telemetry"
)

func newStatsCmd(env envFunc) *cobra.Command {
	var (
		db     string
		runID  string
		list   int
		offset uint64
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize frames recorded by run --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := env()
			if db == "" {
				db = cfg.DBPath
			}
			if db == "" {
				return errors.New("no database: set --db or db_path")
			}

			rec, err := telemetry.NewSQLiteRecorder(db, logger)
			if err != nil {
				return err
			}
			defer rec.Close()
			ctx := cmd.Context()
			if err := rec.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate %s: %w", db, err)
			}

			if runID == "" {
				latest, err := rec.LatestRun(ctx)
				if err != nil {
					return fmt.Errorf("latest run: %w", err)
				}
				if latest == nil {
					return fmt.Errorf("no runs recorded in %s", db)
				}
				runID = latest.ID
			}

			summary, err := rec.Summary(ctx, runID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSummary(out, summary)

			if list <= 0 {
				return nil
			}
			frames, err := rec.ListFrames(ctx, runID, offset, list)
			if err != nil {
				return fmt.Errorf("list frames: %w", err)
			}
			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TOTAL\tRUN\tFRAME\tFPS\tAVG\tDURATION\tEXCESS")
			for _, s := range frames {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
					humanize.Comma(int64(s.TotalFrames)), s.Run, s.Frame, s.ActualFPS, s.AverageFPS, s.ActualDur, s.ExcessDur)
			}
			return w.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&db, "db", "", "SQLite database written by run --db (default db_path)")
	f.StringVar(&runID, "run", "", "Run ID (default the latest run)")
	f.IntVar(&list, "list", 0, "Also list this many frames")
	f.Uint64Var(&offset, "after", 0, "List frames after this total frame number")
	return cmd
}
