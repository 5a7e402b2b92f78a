package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/spf13/cobra"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"logs"},
		Short:   "Inspect, export and prune finished sessions",
	}

	cmd.AddCommand(
		newLogListCmd(app),
		newLogRemoveCmd(app),
		newLogClearCmd(app),
		newLogExportCmd(app),
	)

	return cmd
}

// logFilter narrows the history shown or exported.
type logFilter struct {
	worker string
	task   string
	limit  int
}

func (f logFilter) apply(logs []domain.LogEntry) []domain.LogEntry {
	out := make([]domain.LogEntry, 0, len(logs))
	for _, e := range logs {
		if f.worker != "" && e.Worker != f.worker {
			continue
		}
		if f.task != "" && e.Task != f.task {
			continue
		}
		out = append(out, e)
		if f.limit > 0 && len(out) == f.limit {
			break
		}
	}
	return out
}

func (f *logFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.worker, "worker", "", "Only entries for this worker")
	cmd.Flags().StringVar(&f.task, "task", "", "Only entries for this task")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Show at most N entries (0 for all)")
}

func newLogListCmd(app *App) *cobra.Command {
	var filter logFilter
	var unit domain.TimeUnit

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List finished sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			logs := filter.apply(app.Tracker.Logs())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Log", formatter.FormatLogList(logs, unit)))
			return nil
		},
	}
	filter.register(cmd)
	addUnitFlag(cmd.Flags(), &unit, app.LogUnit)

	return cmd
}

func newLogRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete one log entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.resolveLogID(args[0])
			if errors.Is(err, domain.ErrNotFound) {
				return notFoundNotice(cmd, "log entry", args[0])
			}
			if err != nil {
				return err
			}

			e, _ := app.Tracker.Log(id)
			ok, err := confirmAction(app, yes, fmt.Sprintf("Delete log %d (%s %s / %s)?", id, e.Date, e.Worker, e.Task))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
				return nil
			}

			deleted, err := app.Tracker.DeleteLog(context.Background(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return notFoundNotice(cmd, "log entry", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Deleted log "+formatter.ShortID(id)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newLogClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every log entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			n := len(app.Tracker.Logs())
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Log is already empty."))
				return nil
			}

			ok, err := confirmAction(app, yes, fmt.Sprintf("Delete all %d log entries?", n))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
				return nil
			}

			if _, err := app.Tracker.ClearLogs(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Cleared %d log entries.", n)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newLogExportCmd(app *App) *cobra.Command {
	var filter logFilter
	var format, outPath string
	var unit domain.TimeUnit

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the log as JSON, YAML or CSV",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			f, err := service.ParseExportFormat(format)
			if err != nil {
				return &domain.ValidationError{Field: "format", Msg: err.Error()}
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" && outPath != "-" {
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer func() {
					if cerr := file.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = file
			}

			logs := filter.apply(app.Tracker.Logs())
			if err := service.ExportLogs(w, logs, f, unit); err != nil {
				return err
			}
			if outPath != "" && outPath != "-" {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Success(fmt.Sprintf("Exported %d entries to %s", len(logs), outPath)))
			}
			return nil
		},
	}
	filter.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, yaml or csv")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")
	addUnitFlag(cmd.Flags(), &unit, app.LogUnit)

	return cmd
}
