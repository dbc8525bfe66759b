// Package rundiff compares two parsed MRP runs and reports typed differences.
package rundiff

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/mrplog/pkg/domain/entities"
)

// Reasons recorded in Details[entities.DetailReason] for Other differences
const (
	ReasonJobErrorAppeared     = "job error appeared"
	ReasonJobErrorResolved     = "job error resolved"
	ReasonUnkeyedErrorAppeared = "unkeyed error appeared"
	ReasonUnkeyedErrorResolved = "unkeyed error resolved"
)

// Direction values for DateShifted differences
const (
	DirectionLater   = "later"
	DirectionEarlier = "earlier"
)

const dateLayout = "2006-01-02"

var comparisonNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("github.com/vsinha/mrplog/comparison"))

// Compare builds the comparison of two parsed runs. A nil document is
// treated as an empty run.
func Compare(runA, runB *entities.LogDocument) *entities.LogComparison {
	a, b := orEmpty(runA), orEmpty(runB)
	return &entities.LogComparison{
		ID:          ComparisonID(a, b),
		RunA:        *a,
		RunB:        *b,
		Differences: FindDifferences(a, b),
	}
}

// FindDifferences lists the differences between two runs in a stable order:
// per-job changes in run A order, added jobs in run B order, part errors,
// then everything else.
func FindDifferences(runA, runB *entities.LogDocument) []entities.Difference {
	a, b := orEmpty(runA), orEmpty(runB)
	jobsA, jobsB := indexJobs(a), indexJobs(b)
	partsA, partsB := indexParts(a), indexParts(b)

	c := &collector{diffs: []entities.Difference{}}
	compareJobs(c, jobsA, jobsB)
	compareAddedJobs(c, jobsA, jobsB)
	comparePartErrors(c, partsA, partsB)
	compareJobErrors(c, jobsA, jobsB)
	compareUnkeyedErrors(c, a, b)
	return c.diffs
}

// ComparisonID derives a name-based UUID from both runs' lines, so the same
// pair of logs always yields the same ID.
func ComparisonID(runA, runB *entities.LogDocument) string {
	var b strings.Builder
	for _, doc := range []*entities.LogDocument{orEmpty(runA), orEmpty(runB)} {
		for _, entry := range doc.Entries {
			fmt.Fprintf(&b, "%d\t%s\n", entry.LineNumber, entry.RawLine)
		}
		b.WriteString("\x00")
	}
	return uuid.NewSHA1(comparisonNamespace, []byte(b.String())).String()
}

func orEmpty(doc *entities.LogDocument) *entities.LogDocument {
	if doc == nil {
		return entities.NewLogDocument()
	}
	return doc
}

type collector struct {
	diffs []entities.Difference
}

func (c *collector) add(diffType entities.DifferenceType, a, b *entities.LogEntry, details map[string]string) {
	diff, err := entities.NewDifference(diffType, a, b, details)
	if err != nil {
		return
	}
	c.diffs = append(c.diffs, *diff)
}

func compareJobs(c *collector, jobsA, jobsB *jobIndex) {
	for _, job := range jobsA.order {
		recA := jobsA.records[job]
		recB, ok := jobsB.records[job]
		if !ok {
			c.add(entities.JobRemoved, recA.representative, nil, nil)
			continue
		}
		if details, shifted := dateShift(recA.dueDate, recB.dueDate); shifted {
			c.add(entities.DateShifted, recA.dueDate, recB.dueDate, details)
		}
		if details, changed := quantityChange(recA.quantity, recB.quantity); changed {
			c.add(entities.QuantityChanged, recA.quantity, recB.quantity, details)
		}
	}
}

func compareAddedJobs(c *collector, jobsA, jobsB *jobIndex) {
	for _, job := range jobsB.order {
		if _, ok := jobsA.records[job]; !ok {
			c.add(entities.JobAdded, nil, jobsB.records[job].representative, nil)
		}
	}
}

func comparePartErrors(c *collector, partsA, partsB *partIndex) {
	for _, part := range partsB.errorOrder {
		if _, ok := partsA.firstError[part]; !ok {
			c.add(entities.ErrorAppeared, partsA.firstEntry[part], partsB.firstError[part], nil)
		}
	}
	for _, part := range partsA.errorOrder {
		if _, ok := partsB.firstError[part]; !ok {
			c.add(entities.ErrorResolved, partsA.firstError[part], partsB.firstEntry[part], nil)
		}
	}
}

// compareJobErrors reports errors logged against a job without a part, for
// jobs present in both runs.
func compareJobErrors(c *collector, jobsA, jobsB *jobIndex) {
	for _, job := range jobsA.order {
		recA := jobsA.records[job]
		recB, ok := jobsB.records[job]
		if !ok {
			continue
		}
		switch {
		case recA.jobError == nil && recB.jobError != nil:
			c.add(entities.Other, recA.representative, recB.jobError, reason(ReasonJobErrorAppeared))
		case recA.jobError != nil && recB.jobError == nil:
			c.add(entities.Other, recA.jobError, recB.representative, reason(ReasonJobErrorResolved))
		}
	}
}

// compareUnkeyedErrors matches errors carrying neither a job nor a part by
// their message text.
func compareUnkeyedErrors(c *collector, runA, runB *entities.LogDocument) {
	errorsA, orderA := unkeyedErrors(runA)
	errorsB, orderB := unkeyedErrors(runB)
	for _, msg := range orderB {
		if _, ok := errorsA[msg]; !ok {
			c.add(entities.Other, nil, errorsB[msg], reason(ReasonUnkeyedErrorAppeared))
		}
	}
	for _, msg := range orderA {
		if _, ok := errorsB[msg]; !ok {
			c.add(entities.Other, errorsA[msg], nil, reason(ReasonUnkeyedErrorResolved))
		}
	}
}

func reason(text string) map[string]string {
	return map[string]string{entities.DetailReason: text}
}

func dateShift(a, b *entities.LogEntry) (map[string]string, bool) {
	if a == nil || b == nil {
		return nil, false
	}
	days := dayNumber(*b.DueDate) - dayNumber(*a.DueDate)
	if days == 0 {
		return nil, false
	}
	direction := DirectionLater
	if days < 0 {
		direction = DirectionEarlier
		days = -days
	}
	return map[string]string{
		entities.DetailOriginalDate:   a.DueDate.Format(dateLayout),
		entities.DetailNewDate:        b.DueDate.Format(dateLayout),
		entities.DetailDaysDifference: fmt.Sprintf("%d", days),
		entities.DetailDirection:      direction,
	}, true
}

// dayNumber counts calendar days, ignoring the time of day and zone offset.
func dayNumber(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func quantityChange(a, b *entities.LogEntry) (map[string]string, bool) {
	if a == nil || b == nil {
		return nil, false
	}
	original, updated := a.Quantity.Decimal, b.Quantity.Decimal
	if original.Equal(updated) {
		return nil, false
	}
	return map[string]string{
		entities.DetailOriginalQuantity: original.String(),
		entities.DetailNewQuantity:      updated.String(),
		entities.DetailQuantityDelta:    updated.Sub(original).String(),
	}, true
}
