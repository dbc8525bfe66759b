package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a single log line
type EntryType int

const (
	EntryInfo EntryType = iota
	EntryWarning
	EntryError
	EntryJob
	EntryPart
	EntryTiming
)

// String method for EntryType enum
func (e EntryType) String() string {
	switch e {
	case EntryInfo:
		return "Info"
	case EntryWarning:
		return "Warning"
	case EntryError:
		return "Error"
	case EntryJob:
		return "Job"
	case EntryPart:
		return "Part"
	case EntryTiming:
		return "Timing"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the entry type by name
func (e EntryType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes an entry type name
func (e *EntryType) UnmarshalText(text []byte) error {
	for candidate := EntryInfo; candidate <= EntryTiming; candidate++ {
		if candidate.String() == string(text) {
			*e = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown entry type: %s", text)
}

// LogEntry is one structured line of an MRP run log. Entries are never
// modified after the parser creates them.
type LogEntry struct {
	LineNumber   int                 `json:"line_number" yaml:"line_number"`
	RawLine      string              `json:"raw_line" yaml:"raw_line"`
	EntryType    EntryType           `json:"entry_type" yaml:"entry_type"`
	JobNumber    string              `json:"job_number,omitempty" yaml:"job_number,omitempty"`
	PartNumber   string              `json:"part_number,omitempty" yaml:"part_number,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	Timestamp    *time.Time          `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	DueDate      *time.Time          `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Quantity     decimal.NullDecimal `json:"quantity" yaml:"-"`
}

// HasError reports whether the entry records an error condition
func (e LogEntry) HasError() bool {
	return e.EntryType == EntryError
}

// LogDocument is a parsed run log: metadata plus entries in source order
type LogDocument struct {
	Metadata RunMetadata `json:"metadata" yaml:"metadata"`
	Entries  []LogEntry  `json:"entries" yaml:"entries"`
}

// NewLogDocument creates an empty document carrying default metadata
func NewLogDocument() *LogDocument {
	return &LogDocument{
		Metadata: DefaultRunMetadata(),
		Entries:  []LogEntry{},
	}
}

// EntriesForJob returns the entries that mention a job, in line order
func (d *LogDocument) EntriesForJob(jobNumber string) []*LogEntry {
	var entries []*LogEntry
	if d == nil || jobNumber == "" {
		return entries
	}
	for i := range d.Entries {
		if d.Entries[i].JobNumber == jobNumber {
			entries = append(entries, &d.Entries[i])
		}
	}
	return entries
}

// EntriesForPart returns the entries that mention a part, in line order
func (d *LogDocument) EntriesForPart(partNumber string) []*LogEntry {
	var entries []*LogEntry
	if d == nil || partNumber == "" {
		return entries
	}
	for i := range d.Entries {
		if d.Entries[i].PartNumber == partNumber {
			entries = append(entries, &d.Entries[i])
		}
	}
	return entries
}

// ErrorCount returns the number of error entries in the document
func (d *LogDocument) ErrorCount() int {
	if d == nil {
		return 0
	}
	count := 0
	for _, entry := range d.Entries {
		if entry.HasError() {
			count++
		}
	}
	return count
}
