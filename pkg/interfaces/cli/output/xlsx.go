package output

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/mrplog/pkg/application/dto"
	"github.com/vsinha/mrplog/pkg/domain/entities"
)

// Sheet names used in exported workbooks
const (
	SheetRuns         = "Runs"
	SheetEntries      = "Entries"
	SheetDifferences  = "Differences"
	SheetExplanations = "Explanations"
	SheetBatch        = "Batch"
)

var (
	runHeader         = []interface{}{"Run", "Log", "Site", "Run Type", "Status", "Start", "End", "Health Flags", "Entries", "Errors"}
	entryHeader       = []interface{}{"Line", "Type", "Job", "Part", "Error", "Raw Line"}
	differenceHeader  = []interface{}{"Comparison", "Type", "Job", "Part", "Run A Line", "Run B Line", "Details"}
	explanationHeader = []interface{}{"Comparison", "Type", "Job", "Part", "Summary", "Facts", "Inferences", "Highest Confidence", "Next Steps"}
	batchHeader       = []interface{}{"Name", "Comparison", "Run A", "Run B", "Differences", "Error"}
)

// workbook appends rows to named sheets of an excelize file
type workbook struct {
	file   *excelize.File
	rows   map[string]int
	bold   int
	sheets int
}

func newWorkbook() *workbook {
	return &workbook{file: excelize.NewFile(), rows: make(map[string]int)}
}

// sheet creates a sheet with a bold header row. The first sheet replaces the default one.
func (w *workbook) sheet(name string, header []interface{}) error {
	if w.sheets == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), name); err != nil {
			return err
		}
		style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		w.bold = style
	} else if _, err := w.file.NewSheet(name); err != nil {
		return err
	}
	w.sheets++

	if err := w.append(name, header); err != nil {
		return err
	}
	return w.file.SetRowStyle(name, 1, 1, w.bold)
}

func (w *workbook) append(sheet string, values []interface{}) error {
	w.rows[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, w.rows[sheet])
	if err != nil {
		return err
	}
	return w.file.SetSheetRow(sheet, cell, &values)
}

func (w *workbook) saveAs(path string) error {
	return w.file.SaveAs(path)
}

func (w *workbook) close() {
	_ = w.file.Close()
}

func (w *workbook) parseResult(result *dto.ParseResult) error {
	if err := w.sheet(SheetRuns, runHeader); err != nil {
		return err
	}
	if err := w.append(SheetRuns, runRow("Run", result.Run)); err != nil {
		return err
	}

	if err := w.sheet(SheetEntries, entryHeader); err != nil {
		return err
	}
	for _, entry := range result.Entries {
		row := []interface{}{entry.LineNumber, entry.EntryType.String(), entry.JobNumber, entry.PartNumber, entry.ErrorMessage, entry.RawLine}
		if err := w.append(SheetEntries, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) analysis(result *dto.AnalysisResult) error {
	if err := w.comparisonSheets(); err != nil {
		return err
	}
	return w.appendAnalysis(result)
}

func (w *workbook) comparisonSheets() error {
	if err := w.sheet(SheetRuns, runHeader); err != nil {
		return err
	}
	if err := w.sheet(SheetDifferences, differenceHeader); err != nil {
		return err
	}
	return w.sheet(SheetExplanations, explanationHeader)
}

func (w *workbook) appendAnalysis(result *dto.AnalysisResult) error {
	if err := w.append(SheetRuns, runRow("A", result.RunA)); err != nil {
		return err
	}
	if err := w.append(SheetRuns, runRow("B", result.RunB)); err != nil {
		return err
	}
	for _, diff := range result.Differences {
		if err := w.append(SheetDifferences, differenceRow(result.ComparisonID, diff)); err != nil {
			return err
		}
	}
	for _, explanation := range result.Explanations {
		if err := w.append(SheetExplanations, explanationRow(result.ComparisonID, explanation)); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) batch(result *dto.BatchResult) error {
	if err := w.sheet(SheetBatch, batchHeader); err != nil {
		return err
	}
	if err := w.comparisonSheets(); err != nil {
		return err
	}

	for _, item := range result.Items {
		if item.Result == nil {
			if err := w.append(SheetBatch, []interface{}{item.Name, "", "", "", 0, item.Error}); err != nil {
				return err
			}
			continue
		}
		row := []interface{}{item.Name, item.Result.ComparisonID, item.Result.RunA.Path, item.Result.RunB.Path, len(item.Result.Differences), ""}
		if err := w.append(SheetBatch, row); err != nil {
			return err
		}
		if err := w.appendAnalysis(item.Result); err != nil {
			return err
		}
	}
	return nil
}

func runRow(label string, run dto.RunSummary) []interface{} {
	flags := make([]string, len(run.Metadata.HealthFlags))
	for i, flag := range run.Metadata.HealthFlags {
		flags[i] = string(flag)
	}
	return []interface{}{
		label,
		run.Path,
		run.Metadata.Site,
		string(run.Metadata.RunType),
		string(run.Metadata.Status),
		formatTime(run.Metadata.StartTime),
		formatTime(run.Metadata.EndTime),
		strings.Join(flags, ", "),
		run.EntryCount,
		run.ErrorCount,
	}
}

func differenceRow(comparisonID string, diff entities.Difference) []interface{} {
	return []interface{}{
		comparisonID,
		diff.Type.String(),
		diff.JobNumber,
		diff.PartNumber,
		lineOf(diff.RunAEntry),
		lineOf(diff.RunBEntry),
		formatDetails(diff.Details),
	}
}

func explanationRow(comparisonID string, explanation entities.Explanation) []interface{} {
	facts := make([]string, len(explanation.Facts))
	for i, fact := range explanation.Facts {
		facts[i] = fact.Statement
	}
	inferences := make([]string, len(explanation.Inferences))
	for i, inference := range explanation.Inferences {
		inferences[i] = inference.Statement + " " + formatConfidence(inference.ConfidenceLevel)
	}
	diff := explanation.RelatedDifference
	return []interface{}{
		comparisonID,
		diff.Type.String(),
		diff.JobNumber,
		diff.PartNumber,
		explanation.Summary,
		strings.Join(facts, "\n"),
		strings.Join(inferences, "\n"),
		explanation.HighestConfidence(),
		strings.Join(explanation.NextStepsInEpicor, "\n"),
	}
}

func lineOf(entry *entities.LogEntry) interface{} {
	if entry == nil {
		return ""
	}
	return entry.LineNumber
}
