package events

import (
	"github.com/vsinha/mrplog/pkg/domain/entities"
)

const (
	LogParsedEvent             = "log.parsed"
	RunsComparedEvent          = "runs.compared"
	ExplanationsGeneratedEvent = "explanations.generated"
	BatchCompletedEvent        = "batch.completed"
)

// PipelineEventTypes lists every event the analysis pipeline publishes
var PipelineEventTypes = []string{
	LogParsedEvent,
	RunsComparedEvent,
	ExplanationsGeneratedEvent,
	BatchCompletedEvent,
}

type LogParsed struct {
	RunID      string               `json:"run_id" yaml:"run_id"`
	Path       string               `json:"path,omitempty" yaml:"path,omitempty"`
	Metadata   entities.RunMetadata `json:"metadata" yaml:"metadata"`
	EntryCount int                  `json:"entry_count" yaml:"entry_count"`
	ErrorCount int                  `json:"error_count" yaml:"error_count"`
}

type RunsCompared struct {
	ComparisonID     string         `json:"comparison_id" yaml:"comparison_id"`
	RunA             string         `json:"run_a" yaml:"run_a"`
	RunB             string         `json:"run_b" yaml:"run_b"`
	DifferenceCounts map[string]int `json:"difference_counts" yaml:"difference_counts"`
	TotalDifferences int            `json:"total_differences" yaml:"total_differences"`
}

type ExplanationsGenerated struct {
	ComparisonID      string  `json:"comparison_id" yaml:"comparison_id"`
	Count             int     `json:"count" yaml:"count"`
	LowestConfidence  float64 `json:"lowest_confidence" yaml:"lowest_confidence"`
	HighestConfidence float64 `json:"highest_confidence" yaml:"highest_confidence"`
}

type BatchCompleted struct {
	Manifest    string `json:"manifest" yaml:"manifest"`
	Comparisons int    `json:"comparisons" yaml:"comparisons"`
	Failed      int    `json:"failed" yaml:"failed"`
}

func NewLogParsedEvent(runID, path string, doc *entities.LogDocument) Event {
	return NewEvent(LogParsedEvent, runID, LogParsed{
		RunID:      runID,
		Path:       path,
		Metadata:   doc.Metadata,
		EntryCount: len(doc.Entries),
		ErrorCount: doc.ErrorCount(),
	})
}

func NewRunsComparedEvent(runA, runB string, comparison *entities.LogComparison) Event {
	counts := make(map[string]int)
	for diffType, count := range comparison.CountByType() {
		counts[diffType.String()] = count
	}
	return NewEvent(RunsComparedEvent, comparison.ID, RunsCompared{
		ComparisonID:     comparison.ID,
		RunA:             runA,
		RunB:             runB,
		DifferenceCounts: counts,
		TotalDifferences: len(comparison.Differences),
	})
}

func NewExplanationsGeneratedEvent(comparisonID string, explanations []entities.Explanation) Event {
	data := ExplanationsGenerated{
		ComparisonID: comparisonID,
		Count:        len(explanations),
	}
	first := true
	for _, explanation := range explanations {
		for _, inference := range explanation.Inferences {
			confidence := inference.ConfidenceLevel
			if first || confidence < data.LowestConfidence {
				data.LowestConfidence = confidence
			}
			if first || confidence > data.HighestConfidence {
				data.HighestConfidence = confidence
			}
			first = false
		}
	}
	return NewEvent(ExplanationsGeneratedEvent, comparisonID, data)
}

func NewBatchCompletedEvent(manifest string, comparisons, failed int) Event {
	return NewEvent(BatchCompletedEvent, manifest, BatchCompleted{
		Manifest:    manifest,
		Comparisons: comparisons,
		Failed:      failed,
	})
}
