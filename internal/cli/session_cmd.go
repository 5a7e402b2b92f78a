package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Inspect and remove live sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(app),
		newSessionRemoveCmd(app),
	)

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var status, sortBy string
	var unit domain.TimeUnit

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List live sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			byElapsed := app.SortHolding
			switch sortBy {
			case "":
			case "elapsed":
				byElapsed = true
			case "created":
				byElapsed = false
			default:
				return &domain.ValidationError{Field: "sort", Msg: fmt.Sprintf("%q is not one of elapsed, created", sortBy)}
			}

			var sessions []domain.Session
			title := "Sessions"
			switch status {
			case "":
				sessions = append(app.Tracker.Active(), app.Tracker.Holding(byElapsed)...)
			case string(domain.SessionActive):
				sessions, title = app.Tracker.Active(), "Executing"
			case string(domain.SessionHolding):
				sessions, title = app.Tracker.Holding(byElapsed), "Holding"
			default:
				return &domain.ValidationError{Field: "status", Msg: fmt.Sprintf("%q is not one of active, holding", status)}
			}

			out := formatter.FormatSessionList(sessions, app.Tracker.Now(), unit)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(title, out))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: active or holding")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Order holding sessions: elapsed or created")
	addUnitFlag(cmd.Flags(), &unit, app.HoldingUnit)

	return cmd
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Discard a live session without logging it",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(app, func(cmd *cobra.Command, id int64) error {
			s, _ := app.Tracker.Session(id)
			ok, err := confirmAction(app, yes, fmt.Sprintf("Discard session %d (%s / %s)?", id, s.Worker, s.Task))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
				return nil
			}
			deleted, err := app.Tracker.DeleteSession(context.Background(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return notFoundNotice(cmd, "session", fmt.Sprint(id))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Removed session "+formatter.ShortID(id)))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
