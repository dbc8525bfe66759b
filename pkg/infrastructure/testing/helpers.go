package testing

import (
	"os"
	"path/filepath"
	"strings"
)

// NetChangeRunA is a net change run that abandons job 14567 on a timeout.
// Line 42 holds the abandonment error.
func NetChangeRunA() []string {
	lines := []string{
		"Monday, March 4, 2024 06:15:00",
		"Site List -> PLANT01",
		"MRP Net Change run started",
		"Processing Part: ABC-100",
		"Job 20001 Part: ABC-100 Due: 3/15/2024 Qty: 100",
		"Processing Part: DEF-200",
		"Job 20002 Part: DEF-200 Due: 3/20/2024 Qty: 50",
		"Processing Part: GHI-300",
		"ERROR: Part: GHI-300 cost rollup failed due to timeout",
		"Processing Part: JKL-400",
		"ERROR: Part: JKL-400 missing planning warehouse",
	}
	for len(lines) < 41 {
		lines = append(lines, "06:20:00 Scheduling pass")
	}
	lines = append(lines,
		"ERROR: Job 14567 abandoned due to timeout",
		"06:45:10 Process complete",
	)
	return lines
}

// NetChangeRunB follows NetChangeRunA: job 14567 is gone, job 20001 moved and
// grew, job 30001 is new, GHI-300 and JKL-400 recovered and MNO-500 started failing.
func NetChangeRunB() []string {
	return []string{
		"Tuesday, March 5, 2024 06:15:00",
		"Site List -> PLANT01",
		"MRP Net Change run started",
		"Processing Part: ABC-100",
		"Job 20001 Part: ABC-100 Due: 3/19/2024 Qty: 150",
		"Processing Part: DEF-200",
		"Job 20002 Part: DEF-200 Due: 3/20/2024 Qty: 50",
		"Processing Part: GHI-300",
		"Processing Part: JKL-400",
		"Processing Part: MNO-500",
		"ERROR: Part: MNO-500 supplier price list timeout",
		"Job 30001 Part: PQR-600 Due: 3/25/2024 Qty: 10",
		"06:40:00 Process complete",
	}
}

// RegenRun is a full regeneration log with a Date: line supplying the date.
func RegenRun() []string {
	return []string{
		"Site: PLANT02",
		"Date: 3/6/2024",
		"MRP Regeneration",
		"22:00:05 Deleting unfirm jobs",
		"22:05:00 Building Pegging",
		"Job U000123 Part: XYZ-1 Due: 2024-04-01 Qty: 1,200",
		"23:10:45 Process complete",
	}
}

// Lines splits a literal log into lines.
func Lines(content string) []string {
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}

// WriteLogFile writes lines to dir/name and returns the path.
func WriteLogFile(dir, name string, lines []string) (string, error) {
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}
