package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// FormatSessionList renders live sessions with their elapsed time as of now.
func FormatSessionList(sessions []domain.Session, now time.Time, unit domain.TimeUnit) string {
	if len(sessions) == 0 {
		return Dim("No sessions.") + "\n"
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		elapsed := domain.SplitDuration(s.ElapsedAt(now))
		rows = append(rows, []string{
			ShortID(s.ID),
			StatusPill(s.Status),
			s.Worker,
			s.Task,
			FormatClock(elapsed),
			FormatAmount(elapsed, unit),
			Dim(StartedAgo(s.InitialStartTime, now)),
			Truncate(s.Memo, 30),
		})
	}
	return RenderTable([]string{"ID", "STATUS", "WORKER", "TASK", "ELAPSED", "AMOUNT", "STARTED", "MEMO"}, rows)
}

// FormatLogList renders finished entries, most recent first.
func FormatLogList(logs []domain.LogEntry, unit domain.TimeUnit) string {
	if len(logs) == 0 {
		return Dim("No log entries.") + "\n"
	}
	rows := make([][]string, 0, len(logs))
	var total int
	for _, e := range logs {
		total += e.Duration.TotalSeconds()
		rows = append(rows, []string{
			ShortID(e.ID),
			e.Date,
			e.StartTime + "-" + e.EndTime,
			e.Worker,
			e.Task,
			FormatAmount(e.Duration, unit),
			Dim(FormatAmount(e.HoldingTime, unit)),
			Truncate(e.Memo, 30),
		})
	}
	var b strings.Builder
	b.WriteString(RenderTable([]string{"ID", "DATE", "TIME", "WORKER", "TASK", "WORKED", "HELD", "MEMO"}, rows))
	sum := domain.SplitDuration(time.Duration(total) * time.Second)
	fmt.Fprintf(&b, "\n%s %s across %d entries\n", Bold("Total"), FormatAmount(sum, unit), len(logs))
	return b.String()
}

// FormatFinished renders the box shown after a session is finished.
func FormatFinished(e domain.LogEntry, unit domain.TimeUnit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s / %s\n", Bold(e.Date), e.Worker, e.Task)
	fmt.Fprintf(&b, "%s  %s → %s\n", Dim("time   "), e.StartTime, e.EndTime)
	fmt.Fprintf(&b, "%s  %s (%s)\n", Dim("worked "), FormatClock(e.Duration), FormatAmount(e.Duration, unit))
	fmt.Fprintf(&b, "%s  %s (%s)", Dim("held   "), FormatClock(e.HoldingTime), FormatAmount(e.HoldingTime, unit))
	if e.Memo != "" {
		fmt.Fprintf(&b, "\n%s  %s", Dim("memo   "), e.Memo)
	}
	return RenderBox("Finished", b.String())
}
