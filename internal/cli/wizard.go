package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// worklogHuhTheme returns a custom huh theme using the Gruvbox palette.
func worklogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// startFields holds the values bound to the start form.
type startFields struct {
	worker string
	task   string
	memo   string
}

func validateRequired(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("a %s is required", what)
		}
		return nil
	}
}

// newStartForm asks for worker, task and memo. Registered names are offered
// as completions but any name is accepted here; the service decides.
func newStartForm(workers, tasks domain.Catalog, f *startFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Worker").
				Suggestions(workers).
				Value(&f.worker).
				Validate(validateRequired("worker")),
			huh.NewInput().
				Title("Task").
				Suggestions(tasks).
				Value(&f.task).
				Validate(validateRequired("task")),
			huh.NewInput().
				Title("Memo (optional)").
				Value(&f.memo),
		),
	).WithTheme(worklogHuhTheme()).WithShowHelp(false)
}

// newMemoForm edits a session memo in place.
func newMemoForm(memo *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Memo").
				Value(memo),
		),
	).WithTheme(worklogHuhTheme()).WithShowHelp(false)
}

// applyStart starts a session from form values and describes the outcome.
func applyStart(ctx context.Context, app *App, f startFields) (domain.Session, string, error) {
	s, err := app.Tracker.Start(ctx, f.worker, f.task, f.memo)
	if err != nil {
		return domain.Session{}, "", err
	}
	return s, formatter.Success(fmt.Sprintf("Started %s %s / %s",
		formatter.ShortID(s.ID), formatter.Bold(s.Worker), s.Task)), nil
}

// applyMemo updates a memo and describes the outcome.
func applyMemo(ctx context.Context, app *App, id int64, memo string) (string, error) {
	changed, err := app.Tracker.UpdateMemo(ctx, id, memo)
	if err != nil {
		return "", err
	}
	if !changed {
		if _, ok := app.Tracker.Session(id); !ok {
			return "", fmt.Errorf("session %d: %w", id, domain.ErrNotFound)
		}
		return formatter.Dim("Memo unchanged."), nil
	}
	return formatter.Success("Memo updated."), nil
}

// errorLine renders an error for display inside the TUI or CLI output.
func errorLine(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return formatter.StyleYellow.Render("! ") + ve.Error()
	}
	return formatter.StyleRed.Render("Error: ") + err.Error()
}
