package mrplog

import (
	"github.com/vsinha/mrplog/pkg/domain/entities"
)

// Aliases for the pipeline's value types so callers need a single import
type (
	RunMetadata          = entities.RunMetadata
	LogEntry             = entities.LogEntry
	LogDocument          = entities.LogDocument
	Difference           = entities.Difference
	DifferenceType       = entities.DifferenceType
	LogComparison        = entities.LogComparison
	Explanation          = entities.Explanation
	ExplanationFact      = entities.ExplanationFact
	ExplanationInference = entities.ExplanationInference
)

// Difference types
const (
	JobRemoved      = entities.JobRemoved
	JobAdded        = entities.JobAdded
	DateShifted     = entities.DateShifted
	QuantityChanged = entities.QuantityChanged
	ErrorAppeared   = entities.ErrorAppeared
	ErrorResolved   = entities.ErrorResolved
	Other           = entities.Other
)

// Report is a comparison of two runs together with its explanations
type Report struct {
	Comparison   *LogComparison
	Explanations []Explanation
}

// ExplanationsFor returns the explanations of differences of the given type
func (r *Report) ExplanationsFor(diffType DifferenceType) []Explanation {
	var matched []Explanation
	for _, explanation := range r.Explanations {
		if explanation.RelatedDifference.Type == diffType {
			matched = append(matched, explanation)
		}
	}
	return matched
}
