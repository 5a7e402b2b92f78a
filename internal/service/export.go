package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/alexanderramin/worklog/internal/domain"
	"gopkg.in/yaml.v3"
)

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat accepts json, yaml (or yml) and csv.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch s {
	case "json", "":
		return ExportJSON, nil
	case "yaml", "yml":
		return ExportYAML, nil
	case "csv":
		return ExportCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml or csv)", s)
}

// exportRow is the flat shape every export format shares.
type exportRow struct {
	ID          int64   `json:"id" yaml:"id"`
	Date        string  `json:"date" yaml:"date"`
	StartTime   string  `json:"startTime" yaml:"start_time"`
	EndTime     string  `json:"endTime" yaml:"end_time"`
	Worker      string  `json:"worker" yaml:"worker"`
	Task        string  `json:"task" yaml:"task"`
	Memo        string  `json:"memo" yaml:"memo"`
	Duration    string  `json:"duration" yaml:"duration"`
	HoldingTime string  `json:"holdingTime" yaml:"holding_time"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Unit        string  `json:"unit" yaml:"unit"`
}

func toExportRows(logs []domain.LogEntry, unit domain.TimeUnit) []exportRow {
	rows := make([]exportRow, 0, len(logs))
	for _, e := range logs {
		rows = append(rows, exportRow{
			ID:          e.ID,
			Date:        e.Date,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Worker:      e.Worker,
			Task:        e.Task,
			Memo:        e.Memo,
			Duration:    clockString(e.Duration),
			HoldingTime: clockString(e.HoldingTime),
			Amount:      roundAmount(e.Duration.In(unit), unit),
			Unit:        string(unit),
		})
	}
	return rows
}

func clockString(h domain.HMS) string {
	return fmt.Sprintf("%02d:%02d:%02d", h.Hours, h.Minutes, h.Seconds)
}

// roundAmount keeps two decimals for hours and minutes.
func roundAmount(v float64, unit domain.TimeUnit) float64 {
	if unit == domain.UnitSeconds {
		return v
	}
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}

// ExportLogs writes logs to w in the given format, durations expressed in unit.
func ExportLogs(w io.Writer, logs []domain.LogEntry, format ExportFormat, unit domain.TimeUnit) error {
	rows := toExportRows(logs, unit)
	switch format {
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("writing json: %w", err)
		}
	case ExportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("writing yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("writing yaml: %w", err)
		}
	case ExportCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"id", "date", "start_time", "end_time", "worker", "task", "memo", "duration", "holding_time", "amount", "unit"})
		for _, r := range rows {
			_ = cw.Write([]string{
				strconv.FormatInt(r.ID, 10), r.Date, r.StartTime, r.EndTime,
				r.Worker, r.Task, r.Memo, r.Duration, r.HoldingTime,
				strconv.FormatFloat(r.Amount, 'f', -1, 64), r.Unit,
			})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	return nil
}
