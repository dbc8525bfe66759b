package mrplog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
	testhelpers "github.com/vsinha/mrplog/pkg/infrastructure/testing"
)

func TestAnalyzer_Compare(t *testing.T) {
	report, err := NewAnalyzer().Compare(testhelpers.NetChangeRunA(), testhelpers.NetChangeRunB())
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(report.Comparison.Differences) != 7 {
		t.Fatalf("Expected 7 differences, got %d", len(report.Comparison.Differences))
	}
	if len(report.Explanations) != 7 {
		t.Fatalf("Expected 7 explanations, got %d", len(report.Explanations))
	}

	removed := report.ExplanationsFor(JobRemoved)
	if len(removed) != 1 {
		t.Fatalf("Expected 1 JobRemoved explanation, got %d", len(removed))
	}
	if !strings.Contains(removed[0].NextStepsInEpicor[0], "Job Tracker") {
		t.Errorf("Expected Job Tracker as first step, got %s", removed[0].NextStepsInEpicor[0])
	}

	if got := len(report.ExplanationsFor(ErrorResolved)); got != 2 {
		t.Errorf("Expected 2 ErrorResolved explanations, got %d", got)
	}
}

func TestAnalyzer_Compare_NilLines(t *testing.T) {
	_, err := NewAnalyzer().Compare(nil, testhelpers.NetChangeRunB())
	if !errors.Is(err, mrperrors.ErrInvalidArgument) {
		t.Errorf("Expected invalid argument error, got %v", err)
	}
}

func TestAnalyzer_SkipExplanations(t *testing.T) {
	analyzer := NewAnalyzerWithConfig(AnalyzerConfig{SkipExplanations: true})

	report, err := analyzer.Compare(testhelpers.NetChangeRunA(), testhelpers.NetChangeRunB())
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(report.Explanations) != 0 {
		t.Errorf("Expected no explanations, got %d", len(report.Explanations))
	}
}

func TestAnalyzer_Config(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	analyzer := NewAnalyzerWithConfig(AnalyzerConfig{
		Location:          chicago,
		CompletionMarkers: []string{"planning finished"},
	})

	doc, err := analyzer.ParseLines([]string{
		"Date: 3/6/2024",
		"MRP Regeneration",
		"22:00:05 Deleting unfirm jobs",
		"23:10:45 Planning finished",
	})
	if err != nil {
		t.Fatalf("ParseLines failed: %v", err)
	}

	if doc.Metadata.EndTime == nil {
		t.Fatal("Expected end time from custom completion marker")
	}
	expected := time.Date(2024, 3, 6, 23, 10, 45, 0, chicago)
	if !doc.Metadata.EndTime.Equal(expected) {
		t.Errorf("Expected end time %v, got %v", expected, *doc.Metadata.EndTime)
	}
}

func TestAnalyzer_CompareFiles(t *testing.T) {
	dir := t.TempDir()
	pathA, err := testhelpers.WriteLogFile(dir, "a.log", testhelpers.NetChangeRunA())
	if err != nil {
		t.Fatal(err)
	}
	pathB, err := testhelpers.WriteLogFile(dir, "b.log", testhelpers.NetChangeRunB())
	if err != nil {
		t.Fatal(err)
	}

	report, err := NewAnalyzer().CompareFiles(context.Background(), pathA, pathB)
	if err != nil {
		t.Fatalf("CompareFiles failed: %v", err)
	}
	if len(report.Comparison.Differences) != 7 {
		t.Errorf("Expected 7 differences, got %d", len(report.Comparison.Differences))
	}

	_, err = NewAnalyzer().CompareFiles(context.Background(), pathA, filepath.Join(dir, "missing.log"))
	if !errors.Is(err, mrperrors.ErrNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}
