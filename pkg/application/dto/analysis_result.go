package dto

import (
	"time"

	"github.com/vsinha/mrplog/pkg/domain/entities"
)

// RunSummary describes one parsed run log
type RunSummary struct {
	RunID      string               `json:"run_id" yaml:"run_id"`
	Path       string               `json:"path,omitempty" yaml:"path,omitempty"`
	Metadata   entities.RunMetadata `json:"metadata" yaml:"metadata"`
	EntryCount int                  `json:"entry_count" yaml:"entry_count"`
	ErrorCount int                  `json:"error_count" yaml:"error_count"`
}

// ParseResult is the output of parsing a single run log
type ParseResult struct {
	Run     RunSummary          `json:"run" yaml:"run"`
	Entries []entities.LogEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// AnalysisResult contains the complete output of comparing two runs
type AnalysisResult struct {
	ComparisonID string                 `json:"comparison_id" yaml:"comparison_id"`
	RunA         RunSummary             `json:"run_a" yaml:"run_a"`
	RunB         RunSummary             `json:"run_b" yaml:"run_b"`
	Differences  []entities.Difference  `json:"differences" yaml:"differences"`
	Explanations []entities.Explanation `json:"explanations,omitempty" yaml:"explanations,omitempty"`
	CountsByType map[string]int         `json:"counts_by_type" yaml:"counts_by_type"`
	GeneratedAt  time.Time              `json:"generated_at" yaml:"generated_at"`
}

// BatchItem is the outcome of one manifest row
type BatchItem struct {
	Name   string          `json:"name" yaml:"name"`
	Result *AnalysisResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchResult contains the outcome of every comparison in a manifest
type BatchResult struct {
	Manifest string      `json:"manifest" yaml:"manifest"`
	Items    []BatchItem `json:"items" yaml:"items"`
}

// NewRunSummary summarizes a parsed document
func NewRunSummary(runID, path string, doc *entities.LogDocument) RunSummary {
	return RunSummary{
		RunID:      runID,
		Path:       path,
		Metadata:   doc.Metadata,
		EntryCount: len(doc.Entries),
		ErrorCount: doc.ErrorCount(),
	}
}

// NewAnalysisResult flattens a comparison and its explanations
func NewAnalysisResult(comparison *entities.LogComparison, runA, runB RunSummary, explanations []entities.Explanation, generatedAt time.Time) *AnalysisResult {
	counts := make(map[string]int)
	for diffType, count := range comparison.CountByType() {
		counts[diffType.String()] = count
	}
	return &AnalysisResult{
		ComparisonID: comparison.ID,
		RunA:         runA,
		RunB:         runB,
		Differences:  comparison.Differences,
		Explanations: explanations,
		CountsByType: counts,
		GeneratedAt:  generatedAt,
	}
}

// Failed returns the number of manifest rows that could not be compared
func (b *BatchResult) Failed() int {
	failed := 0
	for _, item := range b.Items {
		if item.Error != "" {
			failed++
		}
	}
	return failed
}
