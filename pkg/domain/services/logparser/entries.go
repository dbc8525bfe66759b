package logparser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrplog/pkg/domain/entities"
)

var (
	jobRe         = regexp.MustCompile(`(?i)\bjob\s*(?:number|num|no\.?|#)?\s*[:#=]?\s*([a-z]*\d[\w-]*)`)
	partLabeledRe = regexp.MustCompile(`(?i)\bpart\s*(?:number|num|no\.?)?\s*[:#=]\s*([a-z0-9][\w.\-/]*)`)
	partBareRe    = regexp.MustCompile(`(?i)\bpart\s+([a-z_.\-/]*\d[\w.\-/]*)`)
	dueDateRe     = regexp.MustCompile(`(?i)\b(?:due(?:\s+date)?|req(?:uired)?\s+by|need\s+date)\s*[:=]?\s*(\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{1,2}-\d{1,2})`)
	quantityRe    = regexp.MustCompile(`(?i)\b(?:qty|quantity)\s*[:=]?\s*(-?\d{1,3}(?:,\d{3})+(?:\.\d+)?|-?\d+(?:\.\d+)?)`)
	errorPrefixRe = regexp.MustCompile(`(?i)\b(?:error|fatal|exception)\s*[:\-]+\s*(.+)$`)
)

var (
	errorKeywords   = []string{"error", "failed", "exception", "abandoned", "timeout", "defunct"}
	warningKeywords = []string{"warning", "warn"}
)

func buildEntry(lineNumber int, raw, folded string, ts *time.Time, loc *time.Location) entities.LogEntry {
	entry := entities.LogEntry{
		LineNumber: lineNumber,
		RawLine:    raw,
		JobNumber:  matchJob(raw),
		PartNumber: matchPart(raw),
		Timestamp:  ts,
		DueDate:    matchDueDate(raw, loc),
		Quantity:   matchQuantity(raw),
	}

	switch {
	case containsAny(folded, errorKeywords):
		entry.EntryType = entities.EntryError
		entry.ErrorMessage = extractErrorMessage(raw)
	case containsAny(folded, warningKeywords):
		entry.EntryType = entities.EntryWarning
	case entry.JobNumber != "":
		entry.EntryType = entities.EntryJob
	case entry.PartNumber != "":
		entry.EntryType = entities.EntryPart
	case ts != nil:
		entry.EntryType = entities.EntryTiming
	default:
		entry.EntryType = entities.EntryInfo
	}

	return entry
}

func containsAny(folded string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(folded, needle) {
			return true
		}
	}
	return false
}

func matchJob(line string) string {
	if m := jobRe.FindStringSubmatch(line); m != nil {
		return trimToken(m[1])
	}
	return ""
}

func matchPart(line string) string {
	for _, re := range []*regexp.Regexp{partLabeledRe, partBareRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			if part := trimToken(m[1]); part != "" {
				return part
			}
		}
	}
	return ""
}

func matchDueDate(line string, loc *time.Location) *time.Time {
	m := dueDateRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	date, ok := parseCalendarDate(m[1], loc)
	if !ok {
		return nil
	}
	return date
}

func matchQuantity(line string) decimal.NullDecimal {
	m := quantityRe.FindStringSubmatch(line)
	if m == nil {
		return decimal.NullDecimal{}
	}
	qty, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(qty)
}

func extractErrorMessage(line string) string {
	if m := errorPrefixRe.FindStringSubmatch(line); m != nil {
		if msg := strings.TrimSpace(m[1]); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(line)
}

// trimToken drops sentence punctuation captured at the end of an identifier.
func trimToken(token string) string {
	return strings.TrimRight(token, ".,;:-/")
}
