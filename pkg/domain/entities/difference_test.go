package entities

import (
	"encoding/json"
	"testing"
)

func TestNewDifference_Validation(t *testing.T) {
	_, err := NewDifference(Other, nil, nil, nil)
	if err == nil {
		t.Fatal("Expected error when both entries are missing")
	}
	if err.Error() != "difference Other requires at least one source entry" {
		t.Errorf("Expected missing entry error, got '%s'", err.Error())
	}

	entryA := &LogEntry{LineNumber: 3, RawLine: "Job 100 Part: P-1", JobNumber: "100", PartNumber: "P-1"}
	diff, err := NewDifference(JobRemoved, entryA, nil, nil)
	if err != nil {
		t.Fatalf("Expected valid difference creation to succeed: %v", err)
	}
	if diff.JobNumber != "100" {
		t.Errorf("Expected job number 100, got %s", diff.JobNumber)
	}
	if diff.PartNumber != "P-1" {
		t.Errorf("Expected part number P-1, got %s", diff.PartNumber)
	}
	if diff.Details == nil {
		t.Error("Expected details map to be initialized")
	}
}

func TestDifferenceType_TextRoundTrip(t *testing.T) {
	for _, diffType := range AllDifferenceTypes {
		text, err := diffType.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText failed for %s: %v", diffType, err)
		}
		var decoded DifferenceType
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText failed for %s: %v", text, err)
		}
		if decoded != diffType {
			t.Errorf("Expected %s, got %s", diffType, decoded)
		}
	}

	var unknown DifferenceType
	if err := unknown.UnmarshalText([]byte("Teleported")); err == nil {
		t.Error("Expected error for unknown difference type")
	}
}

func TestDifference_JSONUsesTypeNames(t *testing.T) {
	diff := Difference{
		Type:      DateShifted,
		JobNumber: "200",
		RunAEntry: &LogEntry{LineNumber: 1, RawLine: "Job 200", EntryType: EntryJob},
		Details:   map[string]string{DetailDaysDifference: "4"},
	}

	data, err := json.Marshal(diff)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["type"] != "DateShifted" {
		t.Errorf("Expected type DateShifted, got %v", decoded["type"])
	}
	entry := decoded["run_a_entry"].(map[string]any)
	if entry["entry_type"] != "Job" {
		t.Errorf("Expected entry_type Job, got %v", entry["entry_type"])
	}
}

func TestDifference_ErrorMessage(t *testing.T) {
	failedA := &LogEntry{LineNumber: 4, RawLine: "ERROR: Part P-1 timeout", EntryType: EntryError, ErrorMessage: "timeout"}
	failedB := &LogEntry{LineNumber: 6, RawLine: "ERROR: Part P-1 no BOM", EntryType: EntryError, ErrorMessage: "no BOM"}
	plain := &LogEntry{LineNumber: 2, RawLine: "Part: P-1"}

	testCases := []struct {
		name     string
		diff     Difference
		expected string
	}{
		{"prefers run A", Difference{RunAEntry: failedA, RunBEntry: failedB}, "timeout"},
		{"falls back to run B", Difference{RunAEntry: plain, RunBEntry: failedB}, "no BOM"},
		{"only run B", Difference{RunBEntry: failedB}, "no BOM"},
		{"no error entries", Difference{RunAEntry: plain}, ""},
		{"no entries", Difference{}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.diff.ErrorMessage(); got != tc.expected {
				t.Errorf("Expected '%s', got '%s'", tc.expected, got)
			}
		})
	}
}

func TestLogComparison_DifferencesForJob(t *testing.T) {
	entry := &LogEntry{LineNumber: 1, RawLine: "Job 7", JobNumber: "7"}
	comparison := &LogComparison{
		Differences: []Difference{
			{Type: DateShifted, JobNumber: "7", RunAEntry: entry},
			{Type: QuantityChanged, JobNumber: "7", RunAEntry: entry},
			{Type: QuantityChanged, JobNumber: "8", RunAEntry: entry},
		},
	}

	matches := comparison.DifferencesForJob("7", QuantityChanged)
	if len(matches) != 1 {
		t.Fatalf("Expected 1 quantity difference for job 7, got %d", len(matches))
	}

	counts := comparison.CountByType()
	if counts[QuantityChanged] != 2 {
		t.Errorf("Expected 2 QuantityChanged differences, got %d", counts[QuantityChanged])
	}

	var nilComparison *LogComparison
	if len(nilComparison.DifferencesForJob("7", DateShifted)) != 0 {
		t.Error("Expected no matches on nil comparison")
	}
}

func TestRunMetadata_Defaults(t *testing.T) {
	metadata := DefaultRunMetadata()
	if metadata.RunType != RunTypeUnknown {
		t.Errorf("Expected run type unknown, got %s", metadata.RunType)
	}
	if metadata.Status != StatusUncertain {
		t.Errorf("Expected status uncertain, got %s", metadata.Status)
	}
	if metadata.Site != "" || metadata.StartTime != nil || metadata.EndTime != nil {
		t.Error("Expected site and timestamps to be unset")
	}
	if len(metadata.HealthFlags) != 0 {
		t.Errorf("Expected no health flags, got %v", metadata.HealthFlags)
	}
	if metadata.Duration() != 0 {
		t.Errorf("Expected zero duration, got %v", metadata.Duration())
	}
}

func TestHealthFlag_IsFailure(t *testing.T) {
	testCases := []struct {
		flag     HealthFlag
		expected bool
	}{
		{FlagError, true},
		{FlagFailed, true},
		{FlagAbandoned, true},
		{FlagTimeout, false},
		{FlagDefunct, false},
	}

	for _, tc := range testCases {
		if got := tc.flag.IsFailure(); got != tc.expected {
			t.Errorf("Expected IsFailure(%s) = %v, got %v", tc.flag, tc.expected, got)
		}
	}
}
