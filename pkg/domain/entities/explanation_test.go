package entities

import "testing"

func validExplanation() Explanation {
	entry := &LogEntry{LineNumber: 42, RawLine: "ERROR: Job 14567 abandoned due to timeout", JobNumber: "14567"}
	return Explanation{
		RelatedDifference: Difference{Type: JobRemoved, JobNumber: "14567", RunAEntry: entry},
		Summary:           "Job 14567 disappeared between runs",
		Facts: []ExplanationFact{
			ObservedFact("Job 14567 was present in Run A", entry),
			AbsenceFact("Job 14567 was not found in Run B", EvidenceAbsent),
		},
		Inferences: []ExplanationInference{
			{Statement: "Removed by cleanup", ConfidenceLevel: 0.85, SupportingReasons: []string{"timeout"}},
		},
		NextStepsInEpicor: []string{"Check Job Tracker"},
	}
}

func TestExplanation_Validate(t *testing.T) {
	if err := validExplanation().Validate(); err != nil {
		t.Fatalf("Expected valid explanation to pass validation: %v", err)
	}

	testCases := []struct {
		name        string
		mutate      func(e *Explanation)
		expectError string
	}{
		{"empty summary", func(e *Explanation) { e.Summary = " " }, "summary cannot be empty"},
		{"no facts", func(e *Explanation) { e.Facts = nil }, "explanation must have at least one fact"},
		{"no inferences", func(e *Explanation) { e.Inferences = nil }, "explanation must have at least one inference"},
		{"no next steps", func(e *Explanation) { e.NextStepsInEpicor = nil }, "explanation must have at least one next step"},
		{
			"empty evidence",
			func(e *Explanation) { e.Facts[0].LogEvidence = "" },
			"fact 0 has empty log evidence",
		},
		{
			"sentinel with line number",
			func(e *Explanation) { e.Facts[1].LineNumber = 7 },
			"fact 1 cites absence but has line number 7",
		},
		{
			"evidence without line number",
			func(e *Explanation) { e.Facts[0].LineNumber = 0 },
			"fact 0 cites log evidence but has line number 0",
		},
		{
			"confidence above one",
			func(e *Explanation) { e.Inferences[0].ConfidenceLevel = 1.2 },
			"inference 0 confidence must be within [0, 1], got 1.20",
		},
		{
			"no reasons",
			func(e *Explanation) { e.Inferences[0].SupportingReasons = nil },
			"inference 0 must have at least one supporting reason",
		},
		{
			"blank reason",
			func(e *Explanation) { e.Inferences[0].SupportingReasons = []string{""} },
			"inference 0 has an empty supporting reason",
		},
		{"blank next step", func(e *Explanation) { e.NextStepsInEpicor = []string{"  "} }, "next step 0 cannot be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			explanation := validExplanation()
			tc.mutate(&explanation)
			err := explanation.Validate()
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestExplanation_HighestConfidence(t *testing.T) {
	explanation := validExplanation()
	explanation.Inferences = append(explanation.Inferences, ExplanationInference{
		Statement: "second", ConfidenceLevel: 0.6, SupportingReasons: []string{"r"},
	})

	if got := explanation.HighestConfidence(); got != 0.85 {
		t.Errorf("Expected highest confidence 0.85, got %.2f", got)
	}
	if got := (Explanation{}).HighestConfidence(); got != 0 {
		t.Errorf("Expected 0 for no inferences, got %.2f", got)
	}
}
