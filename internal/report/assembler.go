// Package report serializes the daily report to its per-day output file.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"phrecap/internal/domain"
)

// FileName returns the per-day output file name for a YYYY-MM-DD date.
func FileName(date string) string {
	return fmt.Sprintf("market-intel-%s.json", date)
}

// Write serializes the report and writes it atomically: the document is
// fully built in memory, written to a temp file in the target directory
// and renamed into place, so a partial file is never observable.
func Write(r *domain.DailyReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileName(r.Date))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("finalize report: %w", err)
	}
	return path, nil
}

// Load reads a previously written report. Used for round-trips and for
// inspecting past days.
func Load(path string) (*domain.DailyReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r domain.DailyReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}
