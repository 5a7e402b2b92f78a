package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatUnit expresses h in unit: hours and minutes with two decimals,
// seconds as a whole number.
func FormatUnit(h domain.HMS, unit domain.TimeUnit) string {
	switch unit {
	case domain.UnitSeconds:
		return strconv.Itoa(h.TotalSeconds())
	default:
		return strconv.FormatFloat(h.In(unit), 'f', 2, 64)
	}
}

// UnitSuffix is the short label shown after an amount.
func UnitSuffix(unit domain.TimeUnit) string {
	switch unit {
	case domain.UnitHours:
		return "h"
	case domain.UnitSeconds:
		return "s"
	default:
		return "m"
	}
}

// FormatAmount is FormatUnit with its suffix.
func FormatAmount(h domain.HMS, unit domain.TimeUnit) string {
	return FormatUnit(h, unit) + UnitSuffix(unit)
}

// FormatClock renders h as HH:MM:SS. Hours are not wrapped at 24.
func FormatClock(h domain.HMS) string {
	return fmt.Sprintf("%02d:%02d:%02d", h.Hours, h.Minutes, h.Seconds)
}

// FormatElapsed renders a running duration as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	return FormatClock(domain.SplitDuration(d))
}

// StartedAgo describes when t happened relative to now, e.g. "3 minutes ago".
func StartedAgo(t, now time.Time) string {
	if t.After(now) {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// ShortID returns the last 6 digits of a session or log ID, dimmed.
func ShortID(id int64) string {
	s := strconv.FormatInt(id, 10)
	if len(s) > 6 {
		s = s[len(s)-6:]
	}
	return StyleDim.Render(s)
}

// Truncate shortens s to max visible runes, ending with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
