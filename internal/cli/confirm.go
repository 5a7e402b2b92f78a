package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// confirmAction gates destructive commands. --yes skips the prompt; without
// it a non-interactive run refuses rather than guessing.
func confirmAction(app *App, yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, fmt.Errorf("%s: pass --yes to confirm when not running in a terminal", title)
	}
	confirm := app.Confirm
	if confirm == nil {
		confirm = huhConfirm
	}
	return confirm(title)
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(worklogHuhTheme()).WithShowHelp(false).Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
