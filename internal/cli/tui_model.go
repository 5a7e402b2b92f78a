package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type tab int

const (
	tabMeasure tab = iota
	tabExecuting
	tabHolding
	tabLogs
	tabCount
)

var tabNames = [tabCount]string{"Measure", "Executing", "Holding", "Logs"}

type (
	// tickMsg only triggers a redraw of running clocks.
	tickMsg time.Time
	// changedMsg arrives when the tracker applied a change from anywhere.
	changedMsg struct{}
	// actionMsg carries the outcome of a command run from the TUI.
	actionMsg struct {
		out      string
		err      error
		started  int64
		finished *domain.LogEntry
	}
)

type formKind int

const (
	formNone formKind = iota
	formStart
	formMemo
)

type pendingConfirm struct {
	prompt string
	run    tea.Cmd
}

// trackerModel is the interactive session tracker.
type trackerModel struct {
	app  *App
	keys keyMap
	help help.Model

	tab     tab
	cursors [tabCount]int
	width   int
	height  int

	now     time.Time
	active  []domain.Session
	holding []domain.Session
	logs    []domain.LogEntry

	holdingUnit domain.TimeUnit
	logUnit     domain.TimeUnit
	sortHolding bool

	// measure tab focus: the session started from it, then its log entry
	lastStarted  int64
	lastFinished *domain.LogEntry

	form      *huh.Form
	formKind  formKind
	startVals *startFields
	memoVal   *string
	memoID    int64

	confirm *pendingConfirm
	status  string

	changes     <-chan struct{}
	unsubscribe func()
}

func newTrackerModel(app *App) *trackerModel {
	changes, unsubscribe := app.Tracker.Subscribe()
	m := &trackerModel{
		app:         app,
		keys:        defaultKeyMap(),
		help:        help.New(),
		holdingUnit: domain.TimeUnit(domain.CoalesceStr(string(app.HoldingUnit), string(domain.UnitMinutes))),
		logUnit:     domain.TimeUnit(domain.CoalesceStr(string(app.LogUnit), string(domain.UnitMinutes))),
		sortHolding: app.SortHolding,
		changes:     changes,
		unsubscribe: unsubscribe,
	}
	m.reload()
	return m
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m *trackerModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForChange(m.changes))
}

func (m *trackerModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// reload copies the current tracker state into the model.
func (m *trackerModel) reload() {
	m.now = m.app.Tracker.Now()
	m.active = m.app.Tracker.Active()
	m.holding = m.app.Tracker.Holding(m.sortHolding)
	m.logs = m.app.Tracker.Logs()

	lengths := [tabCount]int{1, len(m.active), len(m.holding), len(m.logs)}
	for i := range m.cursors {
		m.cursors[i] = max(0, min(m.cursors[i], lengths[i]-1))
	}
}

// run executes fn off the update loop and reports its outcome.
func (m *trackerModel) run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return actionMsg{out: out, err: err}
	}
}

func (m *trackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.now = m.app.Tracker.Now()
		return m, tickCmd()
	case changedMsg:
		m.reload()
		return m, waitForChange(m.changes)
	case actionMsg:
		if msg.started != 0 {
			m.lastStarted, m.lastFinished = msg.started, nil
		}
		if msg.finished != nil && msg.finished.ID == m.lastStarted {
			m.lastStarted, m.lastFinished = 0, msg.finished
		}
		m.reload()
		if msg.err != nil {
			m.status = errorLine(msg.err)
		} else {
			m.status = msg.out
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}
	return m, nil
}

func (m *trackerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		m.status = formatter.Dim("Cancelled.")
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		done := m.submitForm()
		m.closeForm()
		return m, done
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *trackerModel) submitForm() tea.Cmd {
	switch m.formKind {
	case formStart:
		vals := *m.startVals
		return func() tea.Msg {
			s, out, err := applyStart(context.Background(), m.app, vals)
			return actionMsg{out: out, err: err, started: s.ID}
		}
	case formMemo:
		id, memo := m.memoID, *m.memoVal
		return m.run(func(ctx context.Context) (string, error) {
			return applyMemo(ctx, m.app, id, memo)
		})
	}
	return nil
}

func (m *trackerModel) openStartForm() tea.Cmd {
	m.startVals = &startFields{}
	m.form = newStartForm(m.app.Catalog.Workers(), m.app.Catalog.Tasks(), m.startVals)
	m.formKind = formStart
	return m.form.Init()
}

func (m *trackerModel) openMemoForm(s domain.Session) tea.Cmd {
	memo := s.Memo
	m.memoVal = &memo
	m.memoID = s.ID
	m.form = newMemoForm(m.memoVal)
	m.formKind = formMemo
	return m.form.Init()
}

func (m *trackerModel) closeForm() {
	m.form = nil
	m.formKind = formNone
}

func (m *trackerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			run := m.confirm.run
			m.confirm = nil
			return m, run
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
			m.confirm = nil
			m.status = formatter.Dim("Cancelled.")
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.cursors[m.tab] = max(0, m.cursors[m.tab]-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursors[m.tab] = max(0, min(m.rowCount()-1, m.cursors[m.tab]+1))
		return m, nil
	}

	switch m.tab {
	case tabMeasure:
		return m.handleMeasureKey(msg)
	case tabExecuting:
		return m.handleSessionKey(msg, m.active)
	case tabHolding:
		return m.handleHoldingKey(msg)
	default:
		return m.handleLogKey(msg)
	}
}

func (m *trackerModel) rowCount() int {
	switch m.tab {
	case tabExecuting:
		return len(m.active)
	case tabHolding:
		return len(m.holding)
	case tabLogs:
		return len(m.logs)
	}
	return 1
}

func (m *trackerModel) measured() (domain.Session, bool) {
	if m.lastStarted == 0 {
		return domain.Session{}, false
	}
	return m.app.Tracker.Session(m.lastStarted)
}

func (m *trackerModel) handleMeasureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.New) {
		return m, m.openStartForm()
	}
	s, ok := m.measured()
	if !ok {
		return m, nil
	}
	if key.Matches(msg, m.keys.Finish) {
		return m, m.finish(s.ID)
	}
	return m.handleSessionKey(msg, []domain.Session{s})
}

// handleSessionKey applies hold, finish, memo and delete to the selected
// entry of sessions.
func (m *trackerModel) handleSessionKey(msg tea.KeyMsg, sessions []domain.Session) (tea.Model, tea.Cmd) {
	if len(sessions) == 0 {
		return m, nil
	}
	s := sessions[min(m.cursors[m.tab], len(sessions)-1)]

	switch {
	case key.Matches(msg, m.keys.Hold):
		return m, m.run(func(ctx context.Context) (string, error) {
			changed, err := m.app.Tracker.Hold(ctx, s.ID)
			if err != nil || !changed {
				return formatter.Dim("Nothing to hold."), err
			}
			return formatter.Success(fmt.Sprintf("Holding %s / %s", s.Worker, s.Task)), nil
		})
	case key.Matches(msg, m.keys.Resume):
		return m, m.run(func(ctx context.Context) (string, error) {
			changed, err := m.app.Tracker.Resume(ctx, s.ID)
			if err != nil || !changed {
				return formatter.Dim("Nothing to resume."), err
			}
			return formatter.Success(fmt.Sprintf("Resumed %s / %s", s.Worker, s.Task)), nil
		})
	case key.Matches(msg, m.keys.Finish):
		return m, m.finish(s.ID)
	case key.Matches(msg, m.keys.Memo):
		return m, m.openMemoForm(s)
	case key.Matches(msg, m.keys.Delete):
		m.confirm = &pendingConfirm{
			prompt: fmt.Sprintf("Discard %s / %s without logging it?", s.Worker, s.Task),
			run: m.run(func(ctx context.Context) (string, error) {
				if _, err := m.app.Tracker.DeleteSession(ctx, s.ID); err != nil {
					return "", err
				}
				return formatter.Success("Session discarded."), nil
			}),
		}
	}
	return m, nil
}

func (m *trackerModel) finish(id int64) tea.Cmd {
	unit := m.logUnit
	return func() tea.Msg {
		entry, ok, err := m.app.Tracker.Finish(context.Background(), id)
		if err != nil {
			return actionMsg{err: err}
		}
		if !ok {
			return actionMsg{out: formatter.Dim("Session is gone.")}
		}
		return actionMsg{
			out: formatter.Success(fmt.Sprintf("Finished %s / %s: %s (%s)", entry.Worker, entry.Task,
				formatter.FormatClock(entry.Duration), formatter.FormatAmount(entry.Duration, unit))),
			finished: &entry,
		}
	}
}

func (m *trackerModel) handleHoldingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Unit):
		m.holdingUnit = m.holdingUnit.Next()
		return m, nil
	case key.Matches(msg, m.keys.Sort):
		m.sortHolding = !m.sortHolding
		m.reload()
		return m, nil
	}
	return m.handleSessionKey(msg, m.holding)
}

func (m *trackerModel) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Unit):
		m.logUnit = m.logUnit.Next()
	case key.Matches(msg, m.keys.Delete):
		if len(m.logs) == 0 {
			return m, nil
		}
		e := m.logs[m.cursors[tabLogs]]
		m.confirm = &pendingConfirm{
			prompt: fmt.Sprintf("Delete log %s %s / %s?", e.Date, e.Worker, e.Task),
			run: m.run(func(ctx context.Context) (string, error) {
				if _, err := m.app.Tracker.DeleteLog(ctx, e.ID); err != nil {
					return "", err
				}
				return formatter.Success("Log entry deleted."), nil
			}),
		}
	case key.Matches(msg, m.keys.Clear):
		if len(m.logs) == 0 {
			return m, nil
		}
		m.confirm = &pendingConfirm{
			prompt: fmt.Sprintf("Delete all %d log entries?", len(m.logs)),
			run: m.run(func(ctx context.Context) (string, error) {
				if _, err := m.app.Tracker.ClearLogs(ctx); err != nil {
					return "", err
				}
				return formatter.Success("Log cleared."), nil
			}),
		}
	}
	return m, nil
}

// ── View ─────────────────────────────────────────────────────────────────────

var (
	tabActiveStyle   = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	cursorMark       = formatter.StyleHeader.Render("▸")
)

func (m *trackerModel) View() string {
	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")

	if m.form != nil {
		b.WriteString(m.form.View())
		b.WriteString("\n")
		b.WriteString(formatter.Dim("enter next · esc cancel"))
		return b.String()
	}

	switch m.tab {
	case tabMeasure:
		b.WriteString(m.measureView())
	case tabExecuting:
		b.WriteString(m.sessionTable(m.active, m.logUnit, false))
	case tabHolding:
		b.WriteString(formatter.Dim(fmt.Sprintf("unit: %s · sort: %s", m.holdingUnit, m.sortLabel())))
		b.WriteString("\n\n")
		b.WriteString(m.sessionTable(m.holding, m.holdingUnit, true))
	case tabLogs:
		b.WriteString(formatter.Dim("unit: " + string(m.logUnit)))
		b.WriteString("\n\n")
		b.WriteString(m.logTable())
	}

	b.WriteString("\n")
	if m.confirm != nil {
		b.WriteString(formatter.StyleYellow.Render(m.confirm.prompt) + formatter.Dim(" (y/n)"))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(tabKeys{keyMap: m.keys, tab: m.tab}))
	return b.String()
}

func (m *trackerModel) sortLabel() string {
	if m.sortHolding {
		return "elapsed"
	}
	return "created"
}

func (m *trackerModel) tabBar() string {
	counts := [tabCount]int{-1, len(m.active), len(m.holding), len(m.logs)}
	parts := make([]string, 0, tabCount)
	for i, name := range tabNames {
		label := name
		if counts[i] >= 0 {
			label = fmt.Sprintf("%s (%d)", name, counts[i])
		}
		if tab(i) == m.tab {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	return strings.Join(parts, "   ")
}

func (m *trackerModel) measureView() string {
	if s, ok := m.measured(); ok {
		var b strings.Builder
		fmt.Fprintf(&b, "%s  %s / %s\n\n", formatter.StatusPill(s.Status), formatter.Bold(s.Worker), s.Task)
		fmt.Fprintf(&b, "%s\n\n", formatter.StyleBold.Render(formatter.FormatElapsed(s.ElapsedAt(m.now))))
		fmt.Fprintf(&b, "%s %s", formatter.Dim("started"), s.InitialStartTime.Format(domain.DefaultLayouts.Time))
		if s.Memo != "" {
			fmt.Fprintf(&b, "\n%s %s", formatter.Dim("memo"), s.Memo)
		}
		return formatter.RenderBox("Measuring", b.String())
	}
	if m.lastFinished != nil {
		return formatter.FormatFinished(*m.lastFinished, m.logUnit) + "\n" + formatter.Dim("Press n to start another session.")
	}
	return formatter.Dim("Press n to start a session.")
}

func (m *trackerModel) sessionTable(sessions []domain.Session, unit domain.TimeUnit, showAmount bool) string {
	if len(sessions) == 0 {
		return formatter.Dim("No sessions.")
	}
	headers := []string{"", "WORKER", "TASK", "ELAPSED", "STARTED", "MEMO"}
	if showAmount {
		headers[3] = "AMOUNT"
	}
	rows := make([][]string, 0, len(sessions))
	for i, s := range sessions {
		mark := " "
		if i == m.cursors[m.tab] {
			mark = cursorMark
		}
		elapsed := formatter.FormatElapsed(s.ElapsedAt(m.now))
		if showAmount {
			elapsed = formatter.FormatAmount(domain.SplitDuration(s.ElapsedAt(m.now)), unit)
		}
		rows = append(rows, []string{
			mark, s.Worker, s.Task, elapsed,
			formatter.Dim(formatter.StartedAgo(s.InitialStartTime, m.now)),
			formatter.Truncate(s.Memo, 30),
		})
	}
	return formatter.RenderTable(headers, rows)
}

func (m *trackerModel) logTable() string {
	if len(m.logs) == 0 {
		return formatter.Dim("No log entries.")
	}
	rows := make([][]string, 0, len(m.logs))
	for i, e := range m.logs {
		mark := " "
		if i == m.cursors[tabLogs] {
			mark = cursorMark
		}
		rows = append(rows, []string{
			mark, e.Date, e.StartTime + "-" + e.EndTime, e.Worker, e.Task,
			formatter.FormatAmount(e.Duration, m.logUnit),
			formatter.Dim(formatter.FormatAmount(e.HoldingTime, m.logUnit)),
			formatter.Truncate(e.Memo, 30),
		})
	}
	return formatter.RenderTable([]string{"", "DATE", "TIME", "WORKER", "TASK", "WORKED", "HELD", "MEMO"}, rows)
}
