package main

import (
	"fmt"
	"log"

	"github.com/vsinha/mrplog/pkg/mrplog"
)

func main() {
	monday := []string{
		"Monday, March 4, 2024 06:15:00",
		"Site List -> PLANT01",
		"MRP Net Change run started",
		"Processing Part: ABC-100",
		"Job 20001 Part: ABC-100 Due: 3/15/2024 Qty: 100",
		"Processing Part: GHI-300",
		"ERROR: Part: GHI-300 cost rollup failed due to timeout",
		"ERROR: Job 14567 abandoned due to timeout",
		"06:45:10 Process complete",
	}
	tuesday := []string{
		"Tuesday, March 5, 2024 06:15:00",
		"Site List -> PLANT01",
		"MRP Net Change run started",
		"Processing Part: ABC-100",
		"Job 20001 Part: ABC-100 Due: 3/19/2024 Qty: 150",
		"Processing Part: GHI-300",
		"06:40:00 Process complete",
	}

	report, err := mrplog.NewAnalyzer().Compare(monday, tuesday)
	if err != nil {
		log.Fatalf("compare failed: %v", err)
	}

	fmt.Printf("Comparison %s: %d differences\n\n", report.Comparison.ID, len(report.Comparison.Differences))
	for _, explanation := range report.Explanations {
		fmt.Printf("%s\n", explanation.Summary)
		for _, inference := range explanation.Inferences {
			fmt.Printf("  %s (%.0f%%)\n", inference.Statement, inference.ConfidenceLevel*100)
		}
		fmt.Printf("  Next: %s\n\n", explanation.NextStepsInEpicor[0])
	}
}
