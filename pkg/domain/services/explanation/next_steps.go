package explanation

import "github.com/vsinha/mrplog/pkg/domain/entities"

var nextSteps = map[entities.DifferenceType][]string{
	entities.JobRemoved: {
		"Check Job Tracker for the job's status and history",
		"Review Job Entry to confirm whether the job was closed or deleted",
		"Verify System Monitor for failed or timed-out MRP tasks",
	},
	entities.JobAdded: {
		"Review the new job in Job Entry",
		"Check Time Phase for the demand that drives the job",
		"Verify the Process MRP options used for Run B",
	},
	entities.DateShifted: {
		"Review Time Phase for the part's supply and demand timeline",
		"Check Job Tracker for the job's scheduled dates",
		"Verify resource capacity and calendars used by scheduling",
	},
	entities.QuantityChanged: {
		"Review Time Phase for changes in the part's demand",
		"Check Job Entry for the job's production quantity",
		"Verify Part Maintenance planning settings such as minimum and multiple quantities",
	},
	entities.ErrorAppeared: {
		"Check System Monitor for the failing task",
		"Review Part Maintenance for the part's planning data",
		"Verify recent configuration changes before rerunning Process MRP",
	},
	entities.ErrorResolved: {
		"Verify the part's planned supply in Time Phase",
		"Review Part Maintenance to confirm the data correction",
		"Check System Monitor to confirm no related errors remain",
	},
	entities.Other: {
		"Review both run logs around the cited lines",
		"Check System Monitor for related task messages",
	},
}

// NextSteps returns the fixed ERP follow-up actions for a difference type.
// The returned slice is a copy.
func NextSteps(diffType entities.DifferenceType) []string {
	steps, ok := nextSteps[diffType]
	if !ok {
		steps = nextSteps[entities.Other]
	}
	return append([]string(nil), steps...)
}
