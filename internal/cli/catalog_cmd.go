package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/spf13/cobra"
)

// catalogKind selects which name list a catalog command edits.
type catalogKind struct {
	use    string
	plural string
	list   func(*App) domain.Catalog
	add    func(*App, context.Context, string) (bool, error)
	remove func(*App, context.Context, string) (bool, error)
}

var catalogWorkers = catalogKind{
	use:    "worker",
	plural: "workers",
	list:   func(a *App) domain.Catalog { return a.Catalog.Workers() },
	add:    func(a *App, ctx context.Context, n string) (bool, error) { return a.Catalog.AddWorker(ctx, n) },
	remove: func(a *App, ctx context.Context, n string) (bool, error) { return a.Catalog.RemoveWorker(ctx, n) },
}

var catalogTasks = catalogKind{
	use:    "task",
	plural: "tasks",
	list:   func(a *App) domain.Catalog { return a.Catalog.Tasks() },
	add:    func(a *App, ctx context.Context, n string) (bool, error) { return a.Catalog.AddTask(ctx, n) },
	remove: func(a *App, ctx context.Context, n string) (bool, error) { return a.Catalog.RemoveTask(ctx, n) },
}

func newCatalogCmd(app *App, kind catalogKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     kind.use,
		Aliases: []string{kind.plural},
		Short:   fmt.Sprintf("Manage the %s offered when starting a session", kind.plural),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME...",
			Short: fmt.Sprintf("Register %s", kind.plural),
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				for _, name := range args {
					added, err := kind.add(app, ctx, name)
					if err != nil {
						return err
					}
					if added {
						fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Added "+strings.TrimSpace(name)))
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(strings.TrimSpace(name)+" is already registered."))
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm NAME",
			Aliases: []string{"remove"},
			Short:   fmt.Sprintf("Unregister a %s; existing sessions and logs keep it", kind.use),
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				removed, err := kind.remove(app, context.Background(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return notFoundNotice(cmd, kind.use, args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Removed "+args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   fmt.Sprintf("List registered %s", kind.plural),
			RunE: func(cmd *cobra.Command, args []string) error {
				names := kind.list(app)
				if len(names) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("No %s registered.", kind.plural)))
					return nil
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			},
		},
	)

	return cmd
}
