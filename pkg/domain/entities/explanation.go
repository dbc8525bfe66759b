package entities

import (
	"fmt"
	"strings"
)

// Evidence sentinels used when a fact asserts that something did not occur
const (
	EvidenceAbsent      = "(absence in log)"
	EvidenceNoErrorRunA = "(no error in Run A)"
	EvidenceNoErrorRunB = "(no error in Run B)"
)

// IsSentinelEvidence reports whether evidence denotes a non-occurrence
func IsSentinelEvidence(evidence string) bool {
	switch evidence {
	case EvidenceAbsent, EvidenceNoErrorRunA, EvidenceNoErrorRunB:
		return true
	default:
		return false
	}
}

// ExplanationFact is a directly observable statement backed by log evidence
type ExplanationFact struct {
	Statement   string `json:"statement" yaml:"statement"`
	LogEvidence string `json:"log_evidence" yaml:"log_evidence"`
	LineNumber  int    `json:"line_number" yaml:"line_number"`
}

// ObservedFact builds a fact backed by a physical log line
func ObservedFact(statement string, entry *LogEntry) ExplanationFact {
	return ExplanationFact{
		Statement:   statement,
		LogEvidence: entry.RawLine,
		LineNumber:  entry.LineNumber,
	}
}

// AbsenceFact builds a fact asserting a non-occurrence
func AbsenceFact(statement, sentinel string) ExplanationFact {
	return ExplanationFact{
		Statement:   statement,
		LogEvidence: sentinel,
		LineNumber:  0,
	}
}

// ExplanationInference is a confidence-scored hypothesis about a difference
type ExplanationInference struct {
	Statement         string   `json:"statement" yaml:"statement"`
	ConfidenceLevel   float64  `json:"confidence_level" yaml:"confidence_level"`
	SupportingReasons []string `json:"supporting_reasons" yaml:"supporting_reasons"`
}

// Explanation describes one difference for a planner
type Explanation struct {
	RelatedDifference Difference             `json:"related_difference" yaml:"related_difference"`
	Summary           string                 `json:"summary" yaml:"summary"`
	Facts             []ExplanationFact      `json:"facts" yaml:"facts"`
	Inferences        []ExplanationInference `json:"inferences" yaml:"inferences"`
	NextStepsInEpicor []string               `json:"next_steps_in_epicor" yaml:"next_steps_in_epicor"`
}

// Validate checks the structural invariants every explanation must satisfy
func (e Explanation) Validate() error {
	if strings.TrimSpace(e.Summary) == "" {
		return fmt.Errorf("summary cannot be empty")
	}
	if len(e.Facts) == 0 {
		return fmt.Errorf("explanation must have at least one fact")
	}
	if len(e.Inferences) == 0 {
		return fmt.Errorf("explanation must have at least one inference")
	}
	if len(e.NextStepsInEpicor) == 0 {
		return fmt.Errorf("explanation must have at least one next step")
	}

	for i, fact := range e.Facts {
		if fact.LogEvidence == "" {
			return fmt.Errorf("fact %d has empty log evidence", i)
		}
		sentinel := IsSentinelEvidence(fact.LogEvidence)
		if sentinel && fact.LineNumber != 0 {
			return fmt.Errorf("fact %d cites absence but has line number %d", i, fact.LineNumber)
		}
		if !sentinel && fact.LineNumber <= 0 {
			return fmt.Errorf("fact %d cites log evidence but has line number %d", i, fact.LineNumber)
		}
	}

	for i, inference := range e.Inferences {
		if inference.ConfidenceLevel < 0 || inference.ConfidenceLevel > 1 {
			return fmt.Errorf("inference %d confidence must be within [0, 1], got %.2f", i, inference.ConfidenceLevel)
		}
		if len(inference.SupportingReasons) == 0 {
			return fmt.Errorf("inference %d must have at least one supporting reason", i)
		}
		for _, reason := range inference.SupportingReasons {
			if strings.TrimSpace(reason) == "" {
				return fmt.Errorf("inference %d has an empty supporting reason", i)
			}
		}
	}

	for i, step := range e.NextStepsInEpicor {
		if strings.TrimSpace(step) == "" {
			return fmt.Errorf("next step %d cannot be empty", i)
		}
	}

	return nil
}

// HighestConfidence returns the strongest inference confidence, or 0 when there are none
func (e Explanation) HighestConfidence() float64 {
	highest := 0.0
	for _, inference := range e.Inferences {
		if inference.ConfidenceLevel > highest {
			highest = inference.ConfidenceLevel
		}
	}
	return highest
}
