package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/worklog/internal/domain"
)

// minSuffixLen is the shortest ID suffix accepted in place of a full ID.
const minSuffixLen = 3

// resolveID matches input against ids. An exact match wins; otherwise
// input must be a suffix of exactly one ID.
func resolveID(input string, ids []int64) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.Trim(input, "0123456789") != "" {
		return 0, &domain.ValidationError{Field: "id", Msg: fmt.Sprintf("%q is not a numeric id", input)}
	}

	if full, err := strconv.ParseInt(input, 10, 64); err == nil {
		for _, id := range ids {
			if id == full {
				return id, nil
			}
		}
	}

	if len(input) < minSuffixLen {
		return 0, fmt.Errorf("id %q: %w", input, domain.ErrNotFound)
	}

	var matches []int64
	for _, id := range ids {
		if strings.HasSuffix(strconv.FormatInt(id, 10), input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("id %q: %w", input, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return 0, &domain.ValidationError{Field: "id", Msg: fmt.Sprintf("%q matches %d entries, use more digits", input, len(matches))}
	}
}

func (a *App) resolveSessionID(input string) (int64, error) {
	sessions := a.Tracker.Sessions()
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return resolveID(input, ids)
}

func (a *App) resolveLogID(input string) (int64, error) {
	logs := a.Tracker.Logs()
	ids := make([]int64, len(logs))
	for i, e := range logs {
		ids[i] = e.ID
	}
	return resolveID(input, ids)
}
