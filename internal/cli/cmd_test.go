package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB and a fake clock.
func testApp(t *testing.T) (*App, *testutil.FakeClock) {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := testutil.NewFakeClock(testutil.Epoch)

	tracker, _, err := service.NewTrackerService(context.Background(),
		repository.NewStateRepo(database, testutil.NewTestUoW(database)),
		service.Options{Clock: clock})
	require.NoError(t, err)

	return &App{
		Tracker:     tracker,
		Catalog:     tracker,
		LogUnit:     domain.UnitMinutes,
		HoldingUnit: domain.UnitMinutes,
	}, clock
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// seedSession starts a session through the service and returns its ID as
// the CLI would accept it.
func seedSession(t *testing.T, app *App, worker, task string) string {
	t.Helper()
	s, err := app.Tracker.Start(context.Background(), worker, task, "")
	require.NoError(t, err)
	return strconv.FormatInt(s.ID, 10)
}

// --- Root ---

func TestRootCmd_NonInteractivePrintsHelp(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "worklog")
	assert.Contains(t, out, "start")
}

func TestRootCmd_InteractiveLaunchesTUI(t *testing.T) {
	app, _ := testApp(t)
	app.IsInteractive = func() bool { return true }
	launched := false
	app.RunTUI = func(*App) error { launched = true; return nil }

	_, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.True(t, launched)
}

// --- Lifecycle ---

func TestStartCmd(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "start", "--worker", "alice", "--task", "review", "--memo", "PR 12")
	require.NoError(t, err)
	assert.Contains(t, out, "Started")

	sessions := app.Tracker.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "PR 12", sessions[0].Memo)
	assert.Equal(t, domain.Catalog{"alice"}, app.Catalog.Workers())
}

func TestStartCmd_MissingTaskIsValidationError(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "start", "-w", "alice")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, app.Tracker.Sessions())
}

func TestHoldResumeFinish_BySuffix(t *testing.T) {
	app, clock := testApp(t)
	id := seedSession(t, app, "alice", "review")
	suffix := id[len(id)-4:]

	clock.Advance(90 * time.Second)
	out, err := executeCmd(t, app, "hold", suffix)
	require.NoError(t, err)
	assert.Contains(t, out, "Holding")
	assert.Contains(t, out, "00:01:30")

	out, err = executeCmd(t, app, "hold", suffix)
	require.NoError(t, err)
	assert.Contains(t, out, "already holding")

	clock.Advance(60 * time.Second)
	out, err = executeCmd(t, app, "resume", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Resumed")

	clock.Advance(50 * time.Second)
	out, err = executeCmd(t, app, "finish", id, "--unit", "s")
	require.NoError(t, err)
	assert.Contains(t, out, "FINISHED")
	assert.Contains(t, out, "00:02:20")
	assert.Contains(t, out, "140s")
	assert.Contains(t, out, "00:01:00")

	assert.Empty(t, app.Tracker.Sessions())
	assert.Len(t, app.Tracker.Logs(), 1)
}

func TestLifecycleCmd_UnknownIDIsNotice(t *testing.T) {
	app, _ := testApp(t)
	seedSession(t, app, "alice", "review")

	for _, name := range []string{"hold", "resume", "finish", "memo"} {
		out, err := executeCmd(t, app, name, "999999999")
		require.NoError(t, err, name)
		assert.Contains(t, out, "No session matches", name)
	}
	assert.Len(t, app.Tracker.Sessions(), 1)
}

func TestLifecycleCmd_NonNumericID(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "hold", "abc")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestMemoCmd(t *testing.T) {
	app, _ := testApp(t)
	id := seedSession(t, app, "alice", "review")

	out, err := executeCmd(t, app, "memo", id, "waiting", "on", "CI")
	require.NoError(t, err)
	assert.Contains(t, out, "Memo updated")
	assert.Equal(t, "waiting on CI", app.Tracker.Sessions()[0].Memo)

	out, err = executeCmd(t, app, "memo", id, "waiting", "on", "CI")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")

	_, err = executeCmd(t, app, "memo", id)
	require.NoError(t, err)
	assert.Empty(t, app.Tracker.Sessions()[0].Memo)
}

func TestFinishCmd_InvalidUnit(t *testing.T) {
	app, _ := testApp(t)
	id := seedSession(t, app, "alice", "review")

	_, err := executeCmd(t, app, "finish", id, "--unit", "days")
	require.Error(t, err)
	assert.Len(t, app.Tracker.Sessions(), 1, "flag errors happen before anything runs")
}

// --- Sessions ---

func TestSessionList(t *testing.T) {
	app, clock := testApp(t)
	seedSession(t, app, "alice", "review")
	held := seedSession(t, app, "bob", "deploy")
	clock.Advance(2 * time.Minute)
	_, err := executeCmd(t, app, "hold", held)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")

	out, err = executeCmd(t, app, "session", "list", "--status", "holding", "--unit", "h")
	require.NoError(t, err)
	assert.Contains(t, out, "HOLDING")
	assert.Contains(t, out, "0.03h")
	assert.NotContains(t, out, "alice")

	_, err = executeCmd(t, app, "session", "list", "--status", "paused")
	assert.True(t, domain.IsValidation(err))
}

func TestSessionRemove_Confirmation(t *testing.T) {
	app, _ := testApp(t)
	id := seedSession(t, app, "alice", "review")

	_, err := executeCmd(t, app, "session", "rm", id)
	require.Error(t, err, "non-interactive without --yes refuses")
	assert.Contains(t, err.Error(), "--yes")

	app.IsInteractive = func() bool { return true }
	app.Confirm = func(string) (bool, error) { return false, nil }
	out, err := executeCmd(t, app, "session", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Len(t, app.Tracker.Sessions(), 1)

	out, err = executeCmd(t, app, "session", "rm", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session")
	assert.Empty(t, app.Tracker.Sessions())
	assert.Empty(t, app.Tracker.Logs())
}

// --- Logs ---

func seedLogs(t *testing.T, app *App, clock *testutil.FakeClock) []string {
	t.Helper()
	a := seedSession(t, app, "alice", "review")
	b := seedSession(t, app, "bob", "deploy")
	clock.Advance(30 * time.Minute)
	_, err := executeCmd(t, app, "finish", a)
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)
	_, err = executeCmd(t, app, "finish", b)
	require.NoError(t, err)
	return []string{a, b}
}

func TestLogList(t *testing.T) {
	app, clock := testApp(t)
	seedLogs(t, app, clock)

	out, err := executeCmd(t, app, "log", "list", "--unit", "hours")
	require.NoError(t, err)
	assert.Contains(t, out, "0.50h")
	assert.Contains(t, out, "0.75h")
	assert.Contains(t, out, "1.25h across 2 entries")

	out, err = executeCmd(t, app, "log", "list", "--worker", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "across 1 entries")
}

func TestLogRemoveAndClear(t *testing.T) {
	app, clock := testApp(t)
	ids := seedLogs(t, app, clock)

	out, err := executeCmd(t, app, "log", "rm", ids[0], "-y")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted log")
	require.Len(t, app.Tracker.Logs(), 1)

	out, err = executeCmd(t, app, "log", "rm", ids[0], "-y")
	require.NoError(t, err)
	assert.Contains(t, out, "No log entry matches")

	_, err = executeCmd(t, app, "log", "clear")
	require.Error(t, err)

	out, err = executeCmd(t, app, "log", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 log entries")

	out, err = executeCmd(t, app, "log", "clear")
	require.NoError(t, err, "empty log needs no confirmation")
	assert.Contains(t, out, "already empty")
}

func TestLogExport_JSONToFile(t *testing.T) {
	app, clock := testApp(t)
	seedLogs(t, app, clock)
	path := filepath.Join(t.TempDir(), "log.json")

	_, err := executeCmd(t, app, "log", "export", "--out", path, "--unit", "m")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "bob", rows[0]["worker"])
	assert.Equal(t, 45.0, rows[0]["amount"])
}

func TestLogExport_CSVToStdout(t *testing.T) {
	app, clock := testApp(t)
	seedLogs(t, app, clock)

	out, err := executeCmd(t, app, "log", "export", "--format", "csv", "--task", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "id,date,start_time")
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "bob")
}

func TestLogExport_UnknownFormat(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "log", "export", "--format", "xml")
	assert.True(t, domain.IsValidation(err))
}

// --- Catalogs ---

func TestWorkerAndTaskCatalog(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "worker", "add", "alice", "bob", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Added alice")
	assert.Contains(t, out, "already registered")

	out, err = executeCmd(t, app, "worker", "list")
	require.NoError(t, err)
	assert.Equal(t, "alice\nbob\n", out)

	out, err = executeCmd(t, app, "worker", "rm", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, "No worker matches")

	_, err = executeCmd(t, app, "task", "add", "review")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "tasks", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "review")

	_, err = executeCmd(t, app, "task", "rm", "review")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks registered")
}
