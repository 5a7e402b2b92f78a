package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/spf13/cobra"
)

// notFoundNotice prints the dim notice used when an ID matches nothing.
// It returns nil so the command still exits 0.
func notFoundNotice(cmd *cobra.Command, what, input string) error {
	fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("No %s matches %s.", what, input)))
	return nil
}

// withSession resolves args[0] to a live session ID and runs fn with it.
func withSession(app *App, fn func(cmd *cobra.Command, id int64) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := app.resolveSessionID(args[0])
		if errors.Is(err, domain.ErrNotFound) {
			return notFoundNotice(cmd, "session", args[0])
		}
		if err != nil {
			return err
		}
		return fn(cmd, id)
	}
}

func newStartCmd(app *App) *cobra.Command {
	var f startFields

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new session",
		Long:  "Start a new active session. Other sessions keep running.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (strings.TrimSpace(f.worker) == "" || strings.TrimSpace(f.task) == "") && app.interactive() {
				if err := newStartForm(app.Catalog.Workers(), app.Catalog.Tasks(), &f).Run(); err != nil {
					return err
				}
			}
			_, out, err := applyStart(context.Background(), app, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.worker, "worker", "w", "", "Who is working")
	cmd.Flags().StringVarP(&f.task, "task", "t", "", "What is being worked on")
	cmd.Flags().StringVarP(&f.memo, "memo", "m", "", "Free-form note")

	return cmd
}

func newHoldCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hold ID",
		Short: "Pause an active session",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(app, func(cmd *cobra.Command, id int64) error {
			changed, err := app.Tracker.Hold(context.Background(), id)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Session is already holding."))
				return nil
			}
			s, _ := app.Tracker.Session(id)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Holding %s after %s",
				formatter.ShortID(id), formatter.FormatElapsed(s.TotalElapsed))))
			return nil
		}),
	}
}

func newResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume ID",
		Short: "Resume a holding session",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(app, func(cmd *cobra.Command, id int64) error {
			changed, err := app.Tracker.Resume(context.Background(), id)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Session is already active."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Resumed "+formatter.ShortID(id)))
			return nil
		}),
	}
}

func newFinishCmd(app *App) *cobra.Command {
	var unit domain.TimeUnit

	cmd := &cobra.Command{
		Use:   "finish ID",
		Short: "Finish a session and write it to the log",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(app, func(cmd *cobra.Command, id int64) error {
			entry, ok, err := app.Tracker.Finish(context.Background(), id)
			if err != nil {
				return err
			}
			if !ok {
				return notFoundNotice(cmd, "session", fmt.Sprint(id))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFinished(entry, unit))
			return nil
		}),
	}
	addUnitFlag(cmd.Flags(), &unit, app.LogUnit)

	return cmd
}

func newMemoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "memo ID [TEXT...]",
		Short: "Replace the memo of a live session",
		Long:  "Replace the memo of a live session. With no text the memo is cleared.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memo := strings.Join(args[1:], " ")
			return withSession(app, func(cmd *cobra.Command, id int64) error {
				out, err := applyMemo(context.Background(), app, id, memo)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})(cmd, args)
		},
	}
}
