package logparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// Monday, March 4, 2024 06:15:00
	headerRe = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday),\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2}),\s+(\d{4})\s+(\d{1,2}):(\d{2}):(\d{2})\b`)
	// Date: 3/4/2024 (or Run Date:) at the start of a line
	dateLineRe = regexp.MustCompile(`(?i)^\W*(?:(?:run|mrp)\s+)?date:\s*(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	// Start Time: 2024-03-04 06:15 UTC
	absoluteRe = regexp.MustCompile(`(?i)\b(start|end)\s+time:\s*(\d{4})-(\d{1,2})-(\d{1,2})[ t](\d{1,2}):(\d{2})(?::(\d{2}))?\s*utc\b`)
	// HH:MM:SS, range-checked after matching
	timeTokenRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2}):(\d{2})\b`)
)

type stampKind int

const (
	stampNone stampKind = iota
	stampContextual
	stampExplicitStart
	stampExplicitEnd
)

// clock carries the active date across lines so bare time tokens can be
// turned into full timestamps.
type clock struct {
	loc         *time.Location
	currentDate *time.Time
}

func newClock(loc *time.Location) *clock {
	return &clock{loc: loc}
}

// observe updates the active date from the line and returns the timestamp the
// line carries, if any.
func (c *clock) observe(line string) (*time.Time, stampKind) {
	if m := absoluteRe.FindStringSubmatch(line); m != nil {
		date, ok := makeDate(m[2], m[3], m[4], time.UTC)
		if !ok {
			return nil, stampNone
		}
		c.currentDate = date
		seconds := m[7]
		if seconds == "" {
			seconds = "0"
		}
		ts, ok := combine(date, m[5], m[6], seconds)
		if !ok {
			return nil, stampNone
		}
		if strings.EqualFold(m[1], "start") {
			return ts, stampExplicitStart
		}
		return ts, stampExplicitEnd
	}

	if m := headerRe.FindStringSubmatch(line); m != nil {
		month := monthNumber(m[2])
		date, ok := makeDate(m[4], strconv.Itoa(month), m[3], c.loc)
		if !ok {
			return nil, stampNone
		}
		c.currentDate = date
		if ts, ok := combine(date, m[5], m[6], m[7]); ok {
			return ts, stampContextual
		}
		return nil, stampNone
	}

	if m := dateLineRe.FindStringSubmatch(line); m != nil {
		if date, ok := makeDate(m[3], m[1], m[2], c.loc); ok {
			c.currentDate = date
		}
	}

	if c.currentDate == nil {
		return nil, stampNone
	}
	for _, m := range timeTokenRe.FindAllStringSubmatch(line, -1) {
		if ts, ok := combine(c.currentDate, m[1], m[2], m[3]); ok {
			return ts, stampContextual
		}
	}
	return nil, stampNone
}

// makeDate builds midnight of the given day, rejecting dates that time.Date
// would normalize (e.g. 2/30).
func makeDate(year, month, day string, loc *time.Location) (*time.Time, bool) {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return nil, false
	}
	if m < 1 || m > 12 || d < 1 {
		return nil, false
	}
	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if date.Year() != y || int(date.Month()) != m || date.Day() != d {
		return nil, false
	}
	return &date, true
}

// combine applies a validated HH:MM:SS to a date. Out-of-range tokens are rejected.
func combine(date *time.Time, hour, minute, second string) (*time.Time, bool) {
	h, errH := strconv.Atoi(hour)
	m, errM := strconv.Atoi(minute)
	s, errS := strconv.Atoi(second)
	if errH != nil || errM != nil || errS != nil {
		return nil, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return nil, false
	}
	ts := time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, date.Location())
	return &ts, true
}

func monthNumber(name string) int {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return int(m)
		}
	}
	return 0
}

// parseCalendarDate reads M/D/YYYY or YYYY-MM-DD.
func parseCalendarDate(value string, loc *time.Location) (*time.Time, bool) {
	if parts := strings.Split(value, "/"); len(parts) == 3 {
		return makeDate(parts[2], parts[0], parts[1], loc)
	}
	if parts := strings.Split(value, "-"); len(parts) == 3 {
		return makeDate(parts[0], parts[1], parts[2], loc)
	}
	return nil, false
}
