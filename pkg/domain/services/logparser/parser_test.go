package logparser

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/vsinha/mrplog/pkg/domain/entities"
	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
	testhelpers "github.com/vsinha/mrplog/pkg/infrastructure/testing"
)

func mustParse(t *testing.T, lines []string, opts ...Option) *entities.RunMetadata {
	t.Helper()
	metadata, err := ParseLogContent(lines, opts...)
	if err != nil {
		t.Fatalf("ParseLogContent failed: %v", err)
	}
	return metadata
}

func utc(year int, month time.Month, day, hour, minute, second int) time.Time {
	return time.Date(year, month, day, hour, minute, second, 0, time.UTC)
}

func TestParseLogContent_NilLines(t *testing.T) {
	_, err := ParseLogContent(nil)
	if err == nil {
		t.Fatal("Expected error for nil lines")
	}
	if !errors.Is(err, mrperrors.ErrInvalidArgument) {
		t.Errorf("Expected invalid argument error, got %v", err)
	}
}

func TestParseLogContent_EmptyAndBlankInput(t *testing.T) {
	testCases := []struct {
		name  string
		lines []string
	}{
		{"empty slice", []string{}},
		{"blank lines", []string{"", "   ", "\t"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			metadata := mustParse(t, tc.lines)
			if !reflect.DeepEqual(*metadata, entities.DefaultRunMetadata()) {
				t.Errorf("Expected default metadata, got %+v", *metadata)
			}
		})
	}
}

func TestParseLogContent_Site(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		expected string
	}{
		{"site list arrow", []string{"Site List -> MfgSys  "}, "MfgSys"},
		{"site colon", []string{"Site:   PLANT01"}, "PLANT01"},
		{"case insensitive", []string{"SITE LIST -> Main"}, "Main"},
		{"first match wins", []string{"Site: PLANT01", "Site: PLANT02"}, "PLANT01"},
		{"empty value skipped", []string{"Site:   ", "Site: PLANT03"}, "PLANT03"},
		{"site followed by another label", []string{"Site: MAIN  Date: 3/4/2024"}, "MAIN"},
		{"site list followed by text", []string{"Site List -> PLANT01 (2 sites)"}, "PLANT01"},
		{"no site", []string{"nothing here"}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			metadata := mustParse(t, tc.lines)
			if metadata.Site != tc.expected {
				t.Errorf("Expected site '%s', got '%s'", tc.expected, metadata.Site)
			}
		})
	}
}

func TestParseLogContent_HeaderTimestamps(t *testing.T) {
	metadata := mustParse(t, []string{
		"Monday, March 4, 2024 06:15:00",
		"06:30:12 Processing",
		"06:45:10 Process complete",
	})

	if metadata.StartTime == nil || !metadata.StartTime.Equal(utc(2024, time.March, 4, 6, 15, 0)) {
		t.Errorf("Expected start 2024-03-04 06:15:00, got %v", metadata.StartTime)
	}
	if metadata.EndTime == nil || !metadata.EndTime.Equal(utc(2024, time.March, 4, 6, 45, 10)) {
		t.Errorf("Expected end 2024-03-04 06:45:10, got %v", metadata.EndTime)
	}
	if metadata.Status != entities.StatusSuccess {
		t.Errorf("Expected status success, got %s", metadata.Status)
	}
}

func TestParseLogContent_DateLineSuppliesContext(t *testing.T) {
	metadata := mustParse(t, []string{
		"10:00:00 before any date is ignored",
		"Date: 3/6/2024",
		"22:00:05 Start",
		"Date: 3/7/2024",
		"01:10:45 Process complete",
	})

	if metadata.StartTime == nil || !metadata.StartTime.Equal(utc(2024, time.March, 6, 22, 0, 5)) {
		t.Errorf("Expected start 2024-03-06 22:00:05, got %v", metadata.StartTime)
	}
	if metadata.EndTime == nil || !metadata.EndTime.Equal(utc(2024, time.March, 7, 1, 10, 45)) {
		t.Errorf("Expected end on the later date, got %v", metadata.EndTime)
	}
}

func TestParseLogContent_InvalidTimeTokensDiscarded(t *testing.T) {
	testCases := []struct {
		name  string
		token string
	}{
		{"hour out of range", "24:00:00"},
		{"minute out of range", "10:60:00"},
		{"second out of range", "10:00:60"},
		{"all out of range", "99:99:99"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			metadata := mustParse(t, []string{"Date: 1/2/2024", tc.token + " Process complete"})
			if metadata.StartTime != nil || metadata.EndTime != nil {
				t.Errorf("Expected no timestamps for %s, got start=%v end=%v", tc.token, metadata.StartTime, metadata.EndTime)
			}
			if metadata.Status != entities.StatusUncertain {
				t.Errorf("Expected status uncertain, got %s", metadata.Status)
			}
		})
	}

	metadata := mustParse(t, []string{"Date: 1/2/2024", "25:00:00 then 23:59:59 Process complete"})
	if metadata.EndTime == nil || !metadata.EndTime.Equal(utc(2024, time.January, 2, 23, 59, 59)) {
		t.Errorf("Expected first valid token on the line to be used, got %v", metadata.EndTime)
	}
}

func TestParseLogContent_InvalidDateIgnored(t *testing.T) {
	metadata := mustParse(t, []string{"Date: 2/30/2024", "10:00:00 Start"})
	if metadata.StartTime != nil {
		t.Errorf("Expected invalid calendar date to be ignored, got %v", metadata.StartTime)
	}
}

func TestParseLogContent_ExplicitAbsoluteTimes(t *testing.T) {
	metadata := mustParse(t, []string{
		"Monday, March 4, 2024 06:15:00",
		"Start Time: 2024-03-04 05:00 UTC",
		"End Time: 2024-03-04 07:30 UTC",
	})

	if metadata.StartTime == nil || !metadata.StartTime.Equal(utc(2024, time.March, 4, 5, 0, 0)) {
		t.Errorf("Expected explicit start 05:00, got %v", metadata.StartTime)
	}
	if metadata.EndTime == nil || !metadata.EndTime.Equal(utc(2024, time.March, 4, 7, 30, 0)) {
		t.Errorf("Expected explicit end 07:30, got %v", metadata.EndTime)
	}
}

func TestParseLogContent_WithLocation(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	metadata := mustParse(t, []string{"Date: 3/6/2024", "22:00:05 Start"}, WithLocation(loc))

	expected := time.Date(2024, time.March, 6, 22, 0, 5, 0, loc)
	if metadata.StartTime == nil || !metadata.StartTime.Equal(expected) {
		t.Errorf("Expected start %v, got %v", expected, metadata.StartTime)
	}
}

func TestParseLogContent_WithCompletionMarkers(t *testing.T) {
	lines := []string{"Date: 3/6/2024", "22:00:05 Start", "23:00:00 Planning Finished"}

	if metadata := mustParse(t, lines); metadata.EndTime != nil {
		t.Errorf("Expected no end time without custom marker, got %v", metadata.EndTime)
	}
	metadata := mustParse(t, lines, WithCompletionMarkers("Planning Finished"))
	if metadata.EndTime == nil || !metadata.EndTime.Equal(utc(2024, time.March, 6, 23, 0, 0)) {
		t.Errorf("Expected end 23:00:00 with custom marker, got %v", metadata.EndTime)
	}
}

func TestParseLogContent_RunType(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		expected entities.RunType
	}{
		{"net change keyword", []string{"MRP NET CHANGE"}, entities.RunTypeNetChange},
		{"regen keyword", []string{"Regen started"}, entities.RunTypeRegen},
		{"regeneration keyword", []string{"Full Regeneration"}, entities.RunTypeRegen},
		{"building pegging", []string{"Building Pegging"}, entities.RunTypeRegen},
		{"processing part heuristic", []string{"Processing Part: A-1"}, entities.RunTypeNetChange},
		{"no indicators", []string{"hello"}, entities.RunTypeUnknown},
		{"net change beats regen", []string{"Regen requested", "Running as Net Change"}, entities.RunTypeNetChange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			metadata := mustParse(t, tc.lines)
			if metadata.RunType != tc.expected {
				t.Errorf("Expected run type '%s', got '%s'", tc.expected, metadata.RunType)
			}
		})
	}
}

func TestParseLogContent_MixedIndicators_PrefersExplicitKeyword(t *testing.T) {
	metadata := mustParse(t, []string{
		"Processing Part: ABC-100",
		"Regeneration complete for pegging",
	})
	if metadata.RunType != entities.RunTypeRegen {
		t.Errorf("Expected explicit regen keyword to win over heuristic, got '%s'", metadata.RunType)
	}

	metadata = mustParse(t, []string{
		"Processing Part: ABC-100",
		"Net Change run",
	})
	if metadata.RunType != entities.RunTypeNetChange {
		t.Errorf("Expected net change, got '%s'", metadata.RunType)
	}
}

func TestParseLogContent_HealthFlagsDeduplicated(t *testing.T) {
	metadata := mustParse(t, []string{
		"ERROR: one",
		"error: two",
		"Error three",
		"request Timeout",
		"DEFUNCT process",
	})

	expected := []entities.HealthFlag{entities.FlagError, entities.FlagTimeout, entities.FlagDefunct}
	if !reflect.DeepEqual(metadata.HealthFlags, expected) {
		t.Errorf("Expected flags %v, got %v", expected, metadata.HealthFlags)
	}
}

func TestParseLogContent_StatusTable(t *testing.T) {
	withTimes := func(extra ...string) []string {
		return append([]string{"Monday, March 4, 2024 06:15:00"}, append(extra, "06:45:10 Process complete")...)
	}

	testCases := []struct {
		name     string
		lines    []string
		expected entities.RunStatus
	}{
		{"error flag", withTimes("ERROR: bad"), entities.StatusFailed},
		{"failed flag", withTimes("step failed"), entities.StatusFailed},
		{"abandoned flag", withTimes("job abandoned"), entities.StatusFailed},
		{"timeout and abandoned", withTimes("abandoned after timeout"), entities.StatusFailed},
		{"timeout only", withTimes("timeout waiting"), entities.StatusSuccess},
		{"defunct only", withTimes("defunct task"), entities.StatusSuccess},
		{"start without end", []string{"Monday, March 4, 2024 06:15:00", "working"}, entities.StatusIncomplete},
		{"both times", withTimes(), entities.StatusSuccess},
		{"no times", []string{"hello"}, entities.StatusUncertain},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			metadata := mustParse(t, tc.lines)
			if metadata.Status != tc.expected {
				t.Errorf("Expected status '%s', got '%s'", tc.expected, metadata.Status)
			}
		})
	}
}

func TestParseLogContent_TimeoutAndAbandonedAreIndependent(t *testing.T) {
	metadata := mustParse(t, []string{"Job 1 abandoned", "Job 2 timeout"})
	if !metadata.HasFlag(entities.FlagTimeout) || !metadata.HasFlag(entities.FlagAbandoned) {
		t.Errorf("Expected both timeout and abandoned flags, got %v", metadata.HealthFlags)
	}
	if metadata.Status != entities.StatusFailed {
		t.Errorf("Expected status failed, got %s", metadata.Status)
	}
}

func TestParseLogContent_Deterministic(t *testing.T) {
	lines := testhelpers.NetChangeRunA()
	first, err := ParseDocument(lines)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ParseDocument(lines)
		if err != nil {
			t.Fatalf("ParseDocument failed: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("Expected identical output for identical input")
		}
	}
}

func TestParseDocument_Fixtures(t *testing.T) {
	doc, err := ParseDocument(testhelpers.NetChangeRunA())
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if doc.Metadata.Site != "PLANT01" {
		t.Errorf("Expected site PLANT01, got %s", doc.Metadata.Site)
	}
	if doc.Metadata.RunType != entities.RunTypeNetChange {
		t.Errorf("Expected net change, got %s", doc.Metadata.RunType)
	}
	if doc.Metadata.Status != entities.StatusFailed {
		t.Errorf("Expected failed, got %s", doc.Metadata.Status)
	}

	last := doc.Entries[len(doc.Entries)-2]
	if last.LineNumber != 42 {
		t.Fatalf("Expected abandonment error on line 42, got line %d", last.LineNumber)
	}
	if last.JobNumber != "14567" {
		t.Errorf("Expected job 14567, got %s", last.JobNumber)
	}
	if last.ErrorMessage != "Job 14567 abandoned due to timeout" {
		t.Errorf("Unexpected error message: %s", last.ErrorMessage)
	}

	regen, err := ParseDocument(testhelpers.RegenRun())
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if regen.Metadata.RunType != entities.RunTypeRegen {
		t.Errorf("Expected regen, got %s", regen.Metadata.RunType)
	}
	if regen.Metadata.Status != entities.StatusSuccess {
		t.Errorf("Expected success, got %s", regen.Metadata.Status)
	}
	if regen.Metadata.Duration() != 70*time.Minute+40*time.Second {
		t.Errorf("Expected duration 1h10m40s, got %v", regen.Metadata.Duration())
	}
}
