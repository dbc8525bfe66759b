package entities

import "fmt"

// DifferenceType is the closed set of changes detected between two runs
type DifferenceType int

const (
	JobRemoved DifferenceType = iota
	JobAdded
	DateShifted
	QuantityChanged
	ErrorAppeared
	ErrorResolved
	Other
)

// AllDifferenceTypes lists every difference type in declaration order
var AllDifferenceTypes = []DifferenceType{
	JobRemoved,
	JobAdded,
	DateShifted,
	QuantityChanged,
	ErrorAppeared,
	ErrorResolved,
	Other,
}

// String method for DifferenceType enum
func (t DifferenceType) String() string {
	switch t {
	case JobRemoved:
		return "JobRemoved"
	case JobAdded:
		return "JobAdded"
	case DateShifted:
		return "DateShifted"
	case QuantityChanged:
		return "QuantityChanged"
	case ErrorAppeared:
		return "ErrorAppeared"
	case ErrorResolved:
		return "ErrorResolved"
	case Other:
		return "Other"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the difference type by name
func (t DifferenceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a difference type name
func (t *DifferenceType) UnmarshalText(text []byte) error {
	for _, candidate := range AllDifferenceTypes {
		if candidate.String() == string(text) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown difference type: %s", text)
}

// Detail keys carried in Difference.Details
const (
	DetailOriginalDate     = "OriginalDate"
	DetailNewDate          = "NewDate"
	DetailDaysDifference   = "DaysDifference"
	DetailDirection        = "Direction"
	DetailOriginalQuantity = "OriginalQuantity"
	DetailNewQuantity      = "NewQuantity"
	DetailQuantityDelta    = "QuantityDelta"
	DetailReason           = "Reason"
)

// Difference is a single typed discrepancy between run A and run B.
// At least one of RunAEntry and RunBEntry is set.
type Difference struct {
	Type       DifferenceType    `json:"type" yaml:"type"`
	JobNumber  string            `json:"job_number,omitempty" yaml:"job_number,omitempty"`
	PartNumber string            `json:"part_number,omitempty" yaml:"part_number,omitempty"`
	RunAEntry  *LogEntry         `json:"run_a_entry,omitempty" yaml:"run_a_entry,omitempty"`
	RunBEntry  *LogEntry         `json:"run_b_entry,omitempty" yaml:"run_b_entry,omitempty"`
	Details    map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewDifference creates a validated Difference
func NewDifference(diffType DifferenceType, runAEntry, runBEntry *LogEntry, details map[string]string) (*Difference, error) {
	if runAEntry == nil && runBEntry == nil {
		return nil, fmt.Errorf("difference %s requires at least one source entry", diffType)
	}
	if details == nil {
		details = map[string]string{}
	}

	diff := &Difference{
		Type:      diffType,
		RunAEntry: runAEntry,
		RunBEntry: runBEntry,
		Details:   details,
	}
	for _, entry := range []*LogEntry{runAEntry, runBEntry} {
		if entry == nil {
			continue
		}
		if diff.JobNumber == "" {
			diff.JobNumber = entry.JobNumber
		}
		if diff.PartNumber == "" {
			diff.PartNumber = entry.PartNumber
		}
	}
	return diff, nil
}

// Detail returns a detail value, or the empty string when absent
func (d Difference) Detail(key string) string {
	if d.Details == nil {
		return ""
	}
	return d.Details[key]
}

// ErrorMessage returns the first error message found on the difference's entries,
// preferring run A
func (d Difference) ErrorMessage() string {
	if d.RunAEntry != nil && d.RunAEntry.ErrorMessage != "" {
		return d.RunAEntry.ErrorMessage
	}
	if d.RunBEntry != nil && d.RunBEntry.ErrorMessage != "" {
		return d.RunBEntry.ErrorMessage
	}
	return ""
}

// LogComparison is the outcome of comparing two parsed runs
type LogComparison struct {
	ID          string       `json:"id" yaml:"id"`
	RunA        LogDocument  `json:"run_a" yaml:"run_a"`
	RunB        LogDocument  `json:"run_b" yaml:"run_b"`
	Differences []Difference `json:"differences" yaml:"differences"`
}

// DifferencesForJob returns differences of the given type recorded for a job
func (c *LogComparison) DifferencesForJob(jobNumber string, diffType DifferenceType) []Difference {
	var matches []Difference
	if c == nil || jobNumber == "" {
		return matches
	}
	for _, diff := range c.Differences {
		if diff.Type == diffType && diff.JobNumber == jobNumber {
			matches = append(matches, diff)
		}
	}
	return matches
}

// CountByType tallies differences per type
func (c *LogComparison) CountByType() map[DifferenceType]int {
	counts := make(map[DifferenceType]int)
	if c == nil {
		return counts
	}
	for _, diff := range c.Differences {
		counts[diff.Type]++
	}
	return counts
}
