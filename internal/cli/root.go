package cli

import (
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and display settings CLI commands work against.
type App struct {
	Tracker service.TrackerService
	Catalog service.CatalogService

	LogUnit     domain.TimeUnit
	HoldingUnit domain.TimeUnit
	SortHolding bool

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm prompt.
	Confirm func(title string) (bool, error)
	// RunTUI launches the interactive UI. Nil uses the bubbletea program.
	RunTUI func(app *App) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "worklog" command and registers all
// subcommands against the provided App. Run bare on a terminal it opens
// the TUI; otherwise it prints help.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "worklog",
		Short:         "Track work sessions by worker and task",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newStartCmd(app),
		newHoldCmd(app),
		newResumeCmd(app),
		newFinishCmd(app),
		newMemoCmd(app),
		newSessionCmd(app),
		newLogCmd(app),
		newCatalogCmd(app, catalogWorkers),
		newCatalogCmd(app, catalogTasks),
		newTUICmd(app),
	)

	return root
}
