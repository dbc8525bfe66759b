package entities

import "time"

// RunType identifies how an MRP run recomputed the plan
type RunType string

const (
	RunTypeRegen     RunType = "regen"
	RunTypeNetChange RunType = "net change"
	RunTypeUnknown   RunType = "unknown"
)

// RunStatus is the overall outcome inferred for a run
type RunStatus string

const (
	StatusSuccess    RunStatus = "success"
	StatusFailed     RunStatus = "failed"
	StatusIncomplete RunStatus = "incomplete"
	StatusUncertain  RunStatus = "uncertain"
)

// HealthFlag is a keyword-derived anomaly indicator
type HealthFlag string

const (
	FlagError     HealthFlag = "error"
	FlagTimeout   HealthFlag = "timeout"
	FlagAbandoned HealthFlag = "abandoned"
	FlagDefunct   HealthFlag = "defunct"
	FlagFailed    HealthFlag = "failed"
)

// HealthFlagVocabulary lists every recognized flag in the order flags are reported
var HealthFlagVocabulary = []HealthFlag{
	FlagError,
	FlagTimeout,
	FlagAbandoned,
	FlagDefunct,
	FlagFailed,
}

// IsFailure reports whether the flag alone marks a run as failed.
// timeout and defunct are informational.
func (f HealthFlag) IsFailure() bool {
	switch f {
	case FlagError, FlagFailed, FlagAbandoned:
		return true
	default:
		return false
	}
}

// RunMetadata summarizes a single MRP run log
type RunMetadata struct {
	Site        string       `json:"site,omitempty" yaml:"site,omitempty"`
	StartTime   *time.Time   `json:"start_time" yaml:"start_time"`
	EndTime     *time.Time   `json:"end_time" yaml:"end_time"`
	RunType     RunType      `json:"run_type" yaml:"run_type"`
	Status      RunStatus    `json:"status" yaml:"status"`
	HealthFlags []HealthFlag `json:"health_flags" yaml:"health_flags"`
}

// DefaultRunMetadata returns metadata for a log that yielded no information
func DefaultRunMetadata() RunMetadata {
	return RunMetadata{
		RunType:     RunTypeUnknown,
		Status:      StatusUncertain,
		HealthFlags: []HealthFlag{},
	}
}

// HasFlag reports whether the flag was observed in the run
func (m RunMetadata) HasFlag(flag HealthFlag) bool {
	for _, f := range m.HealthFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// Duration returns the elapsed run time, or zero when either bound is unknown
func (m RunMetadata) Duration() time.Duration {
	if m.StartTime == nil || m.EndTime == nil {
		return 0
	}
	return m.EndTime.Sub(*m.StartTime)
}
