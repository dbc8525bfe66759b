package explanation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrplog/pkg/domain/entities"
)

func explainJobRemoved(diff entities.Difference, _ *entities.LogComparison) entities.Explanation {
	job := orUnknown(diff.JobNumber)
	entry := diff.RunAEntry
	message := diff.ErrorMessage()

	facts := []entities.ExplanationFact{
		entryFact(fmt.Sprintf("Job %s is present in Run A at line %d", job, lineNumber(entry)), entry, "A"),
		entities.AbsenceFact(fmt.Sprintf("Job %s is not found in Run B", job), entities.EvidenceAbsent),
	}
	if entry != nil && message != "" {
		facts = append(facts, entities.ObservedFact(
			fmt.Sprintf("Run A logged an error for job %s: %s", job, message), entry))
	}

	var guess entities.ExplanationInference
	switch {
	case mentions(message, "timeout"):
		guess = inference(
			fmt.Sprintf("Job %s was likely removed by automatic cleanup after a timeout", job),
			ConfidenceTimeoutCleanup,
			"Run A reports a timeout for the job, which triggers automatic cleanup",
			"Automatic cleanup of timed-out jobs is common in Net Change runs",
		)
	case mentions(message, "abandoned"):
		guess = inference(
			fmt.Sprintf("Job %s was likely manually deleted after it was abandoned", job),
			ConfidenceAbandonedDeletion,
			"Run A reports the job as abandoned",
		)
	default:
		guess = inference(
			fmt.Sprintf("Job %s was likely manually deleted or closed between runs", job),
			ConfidenceManualDeletion,
			"The job no longer appears in Run B and no cleanup condition was logged",
		)
	}

	return newExplanation(diff, fmt.Sprintf("Job %s disappeared between runs", job), facts, guess)
}

func explainJobAdded(diff entities.Difference, comparison *entities.LogComparison) entities.Explanation {
	job := orUnknown(diff.JobNumber)
	entry := diff.RunBEntry

	facts := []entities.ExplanationFact{
		entities.AbsenceFact(fmt.Sprintf("Job %s is not found in Run A", job), entities.EvidenceAbsent),
		entryFact(fmt.Sprintf("Job %s is present in Run B at line %d", job, lineNumber(entry)), entry, "B"),
	}

	var guess entities.ExplanationInference
	switch runTypeOfB(comparison) {
	case entities.RunTypeRegen:
		guess = inference(
			fmt.Sprintf("Job %s was likely created by the full regeneration in Run B", job),
			ConfidenceRegenCreated,
			"Run B is a regeneration run, which rebuilds unfirm jobs from current demand",
		)
	case entities.RunTypeNetChange:
		guess = inference(
			fmt.Sprintf("Job %s was likely created for new demand picked up by Run B", job),
			ConfidenceNewDemand,
			"Run B is a net change run, which only plans parts whose demand or supply changed",
		)
	default:
		guess = inference(
			fmt.Sprintf("Job %s was likely created by planning in Run B", job),
			ConfidenceUnknownCreated,
			"The run type of Run B could not be determined",
		)
	}

	return newExplanation(diff, fmt.Sprintf("Job %s appeared in Run B", job), facts, guess)
}

func explainDateShifted(diff entities.Difference, comparison *entities.LogComparison) entities.Explanation {
	job := orUnknown(diff.JobNumber)
	original := orUnknown(diff.Detail(entities.DetailOriginalDate))
	updated := orUnknown(diff.Detail(entities.DetailNewDate))

	summary := fmt.Sprintf("Job %s due date moved from %s%s to %s%s",
		job, original, lineSuffix(diff.RunAEntry), updated, lineSuffix(diff.RunBEntry))
	if days := diff.Detail(entities.DetailDaysDifference); days != "" {
		summary = fmt.Sprintf("%s, %s days %s", summary, days, diff.Detail(entities.DetailDirection))
	}

	facts := []entities.ExplanationFact{
		entryFact(fmt.Sprintf("Run A due date for job %s is %s", job, original), diff.RunAEntry, "A"),
		entryFact(fmt.Sprintf("Run B due date for job %s is %s", job, updated), diff.RunBEntry, "B"),
	}

	var guess entities.ExplanationInference
	if related := comparison.DifferencesForJob(diff.JobNumber, entities.QuantityChanged); len(related) > 0 {
		change := related[0]
		direction := "rose"
		if quantityFell(change) {
			direction = "fell"
		}
		guess = inference(
			fmt.Sprintf("The due date likely moved because of the quantity increase on job %s", job),
			ConfidenceQuantityCorrelated,
			fmt.Sprintf("Job %s also changed quantity from %s to %s in the same comparison", job,
				change.Detail(entities.DetailOriginalQuantity), change.Detail(entities.DetailNewQuantity)),
			fmt.Sprintf("The quantity %s between runs", direction),
		)
	} else {
		guess = inference(
			"The due date likely moved because of resource availability",
			ConfidenceResourceShift,
			fmt.Sprintf("No quantity change was detected for job %s", job),
			"Capacity and material availability changes move scheduled dates",
		)
	}

	return newExplanation(diff, summary, facts, guess)
}

func explainQuantityChanged(diff entities.Difference, _ *entities.LogComparison) entities.Explanation {
	job := orUnknown(diff.JobNumber)
	original := diff.Detail(entities.DetailOriginalQuantity)
	updated := diff.Detail(entities.DetailNewQuantity)

	facts := []entities.ExplanationFact{
		entryFact(fmt.Sprintf("Run A quantity for job %s is %s", job, orUnknown(original)), diff.RunAEntry, "A"),
		entryFact(fmt.Sprintf("Run B quantity for job %s is %s", job, orUnknown(updated)), diff.RunBEntry, "B"),
	}

	var guess entities.ExplanationInference
	if quantityRose(diff) {
		guess = inference(
			fmt.Sprintf("Job %s likely grew to cover additional demand", job),
			ConfidenceAdditionalDemand,
			fmt.Sprintf("Quantity increased from %s to %s", original, updated),
		)
	} else {
		guess = inference(
			fmt.Sprintf("Job %s likely shrank after a demand reduction", job),
			ConfidenceDemandReduction,
			fmt.Sprintf("Quantity did not increase between runs (%s to %s)", orUnknown(original), orUnknown(updated)),
		)
	}

	return newExplanation(diff,
		fmt.Sprintf("Job %s quantity changed from %s to %s", job, orUnknown(original), orUnknown(updated)),
		facts, guess)
}

func explainErrorAppeared(diff entities.Difference, _ *entities.LogComparison) entities.Explanation {
	part := orUnknown(diff.PartNumber)
	message := diff.ErrorMessage()

	facts := []entities.ExplanationFact{
		entities.AbsenceFact(fmt.Sprintf("Run A logged no error for part %s", part), entities.EvidenceNoErrorRunA),
		entryFact(fmt.Sprintf("Run B logged an error for part %s: %s", part, orUnknown(message)), diff.RunBEntry, "B"),
	}

	var guess entities.ExplanationInference
	if mentions(message, "timeout") {
		guess = inference(
			"The error was likely caused by network latency or a slow dependency",
			ConfidenceNetworkLatency,
			"The Run B error message mentions a timeout",
		)
	} else {
		guess = inference(
			"The error was likely caused by a configuration change between runs",
			ConfidenceConfigChange,
			"The part planned without errors in Run A",
		)
	}

	return newExplanation(diff, fmt.Sprintf("New error appeared in Run B for Part %s", part), facts, guess)
}

func explainErrorResolved(diff entities.Difference, _ *entities.LogComparison) entities.Explanation {
	part := orUnknown(diff.PartNumber)
	message := diff.ErrorMessage()

	facts := []entities.ExplanationFact{
		entryFact(fmt.Sprintf("Run A logged an error for part %s: %s", part, orUnknown(message)), diff.RunAEntry, "A"),
		entities.AbsenceFact(fmt.Sprintf("Run B logged no error for part %s", part), entities.EvidenceNoErrorRunB),
	}

	var guess entities.ExplanationInference
	if mentions(message, "timeout") {
		guess = inference(
			"The error was likely resolved by improved system performance",
			ConfidencePerformance,
			"The Run A error message mentions a timeout",
		)
	} else {
		guess = inference(
			"The error was likely resolved by a data correction",
			ConfidenceDataCorrection,
			"The part planned without errors in Run B",
		)
	}

	return newExplanation(diff, fmt.Sprintf("Error resolved in Run B for Part %s", part), facts, guess)
}

// quantityRose reports whether NewQuantity > OriginalQuantity. Unparseable
// details count as no increase.
func quantityRose(diff entities.Difference) bool {
	original, updated, ok := quantities(diff)
	return ok && updated.GreaterThan(original)
}

func quantityFell(diff entities.Difference) bool {
	original, updated, ok := quantities(diff)
	return ok && updated.LessThan(original)
}

func quantities(diff entities.Difference) (decimal.Decimal, decimal.Decimal, bool) {
	original, err := decimal.NewFromString(diff.Detail(entities.DetailOriginalQuantity))
	if err != nil {
		return decimal.Zero, decimal.Zero, false
	}
	updated, err := decimal.NewFromString(diff.Detail(entities.DetailNewQuantity))
	if err != nil {
		return decimal.Zero, decimal.Zero, false
	}
	return original, updated, true
}
