// Package explanation turns run differences into planner-readable
// explanations: evidence-backed facts, confidence-scored inferences and
// fixed next steps in the ERP.
//
// Each difference type has one rule in a dispatch table. When an error
// message, run metadata or a log entry is missing, a rule keeps its own
// summary and takes its lowest-confidence branch. Unknown types use the
// generic rule.
package explanation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/vsinha/mrplog/pkg/domain/entities"
)

// Confidence levels assigned by the rules
const (
	ConfidenceTimeoutCleanup     = 0.85
	ConfidenceAbandonedDeletion  = 0.75
	ConfidenceManualDeletion     = 0.60
	ConfidenceRegenCreated       = 0.80
	ConfidenceNewDemand          = 0.85
	ConfidenceUnknownCreated     = 0.60
	ConfidenceQuantityCorrelated = 0.80
	ConfidenceResourceShift      = 0.65
	ConfidenceAdditionalDemand   = 0.80
	ConfidenceDemandReduction    = 0.75
	ConfidenceNetworkLatency     = 0.75
	ConfidenceConfigChange       = 0.70
	ConfidencePerformance        = 0.70
	ConfidenceDataCorrection     = 0.80
	ConfidenceGeneric            = 0.50
)

// rule explains one difference in the context of its comparison
type rule func(diff entities.Difference, comparison *entities.LogComparison) entities.Explanation

var rules = map[entities.DifferenceType]rule{
	entities.JobRemoved:      explainJobRemoved,
	entities.JobAdded:        explainJobAdded,
	entities.DateShifted:     explainDateShifted,
	entities.QuantityChanged: explainQuantityChanged,
	entities.ErrorAppeared:   explainErrorAppeared,
	entities.ErrorResolved:   explainErrorResolved,
	entities.Other:           explainOther,
}

// GenerateExplanations returns one explanation per difference, in order.
// A nil comparison or one without differences yields an empty slice.
func GenerateExplanations(comparison *entities.LogComparison) []entities.Explanation {
	explanations := []entities.Explanation{}
	if comparison == nil {
		return explanations
	}
	for _, diff := range comparison.Differences {
		explanations = append(explanations, Explain(diff, comparison))
	}
	return explanations
}

// Explain produces the explanation for a single difference. The comparison
// supplies run metadata and correlated differences and may be nil.
func Explain(diff entities.Difference, comparison *entities.LogComparison) entities.Explanation {
	if apply, ok := rules[diff.Type]; ok {
		explanation := apply(diff, comparison)
		if explanation.Validate() == nil {
			return explanation
		}
	}
	return explainOther(diff, comparison)
}

func newExplanation(diff entities.Difference, summary string, facts []entities.ExplanationFact, inference entities.ExplanationInference) entities.Explanation {
	return entities.Explanation{
		RelatedDifference: diff,
		Summary:           summary,
		Facts:             facts,
		Inferences:        []entities.ExplanationInference{inference},
		NextStepsInEpicor: NextSteps(diff.Type),
	}
}

func inference(statement string, confidence float64, reasons ...string) entities.ExplanationInference {
	return entities.ExplanationInference{
		Statement:         statement,
		ConfidenceLevel:   confidence,
		SupportingReasons: reasons,
	}
}

// mentions reports whether text contains the keyword, ignoring case.
func mentions(text, keyword string) bool {
	caser := cases.Fold()
	return strings.Contains(caser.String(text), caser.String(keyword))
}

func orUnknown(value string) string {
	if value == "" {
		return "(unknown)"
	}
	return value
}

func runTypeOfB(comparison *entities.LogComparison) entities.RunType {
	if comparison == nil {
		return entities.RunTypeUnknown
	}
	return comparison.RunB.Metadata.RunType
}

func entryFacts(diff entities.Difference) []entities.ExplanationFact {
	var facts []entities.ExplanationFact
	if diff.RunAEntry != nil {
		facts = append(facts, entities.ObservedFact(
			fmt.Sprintf("Run A line %d records the related entry", diff.RunAEntry.LineNumber), diff.RunAEntry))
	}
	if diff.RunBEntry != nil {
		facts = append(facts, entities.ObservedFact(
			fmt.Sprintf("Run B line %d records the related entry", diff.RunBEntry.LineNumber), diff.RunBEntry))
	}
	return facts
}

// entryFact backs a statement with the entry's line, or records that the
// difference carries no line for that run
func entryFact(statement string, entry *entities.LogEntry, run string) entities.ExplanationFact {
	if entry == nil {
		return entities.AbsenceFact(fmt.Sprintf("No Run %s line is attached to this difference", run), entities.EvidenceAbsent)
	}
	return entities.ObservedFact(statement, entry)
}

func lineNumber(entry *entities.LogEntry) int {
	if entry == nil {
		return 0
	}
	return entry.LineNumber
}

func lineSuffix(entry *entities.LogEntry) string {
	if entry == nil {
		return ""
	}
	return fmt.Sprintf(" (line %d)", entry.LineNumber)
}

func explainOther(diff entities.Difference, _ *entities.LogComparison) entities.Explanation {
	facts := []entities.ExplanationFact{}
	for _, fact := range entryFacts(diff) {
		if fact.LogEvidence != "" && fact.LineNumber > 0 {
			facts = append(facts, fact)
		}
	}
	if len(facts) == 0 {
		facts = append(facts, entities.AbsenceFact("No log line is attached to this difference", entities.EvidenceAbsent))
	}

	reason := "No specific rule explains this difference"
	if detail := diff.Detail(entities.DetailReason); detail != "" {
		reason = fmt.Sprintf("The runs differ by: %s", detail)
	}

	return newExplanation(diff,
		fmt.Sprintf("Difference detected: %s", diff.Type),
		facts,
		inference("The runs differ in a way that needs manual review", ConfidenceGeneric, reason),
	)
}
