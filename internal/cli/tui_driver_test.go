package cli

import (
	"testing"

	"github.com/alexanderramin/worklog/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to the tracker model.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the tracker model for app, sets a terminal size and
// drains Init. The model's subscription is released when the test ends.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newTrackerModel(app)
	t.Cleanup(m.close)
	d := teatest.New(t, m, teatest.WithSize(140, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) tracker() *trackerModel {
	return d.Model.(*trackerModel)
}

// Tab returns the tab currently shown.
func (d *TestDriver) Tab() tab {
	return d.tracker().tab
}

// FormOpen reports whether a huh form has focus.
func (d *TestDriver) FormOpen() bool {
	return d.tracker().form != nil
}

// Confirming reports whether a y/n prompt is pending.
func (d *TestDriver) Confirming() bool {
	return d.tracker().confirm != nil
}

// SubmitStart fills the start form and submits it, bypassing huh's
// field-by-field key handling.
func (d *TestDriver) SubmitStart(worker, task, memo string) {
	d.T.Helper()
	m := d.tracker()
	m.startVals = &startFields{worker: worker, task: task, memo: memo}
	m.formKind = formStart
	cmd := m.submitForm()
	m.closeForm()
	d.Send(cmd())
}

// GoTo presses tab until want is shown.
func (d *TestDriver) GoTo(want tab) {
	d.T.Helper()
	for i := tab(0); i < tabCount; i++ {
		if d.Tab() == want {
			return
		}
		d.PressTab()
	}
	d.T.Fatalf("could not reach tab %d", want)
}
