package output

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vsinha/mrplog/pkg/application/dto"
	"github.com/vsinha/mrplog/pkg/domain/entities"
	"github.com/vsinha/mrplog/pkg/infrastructure/events"
)

const timeLayout = "2006-01-02 15:04:05 MST"

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	failure lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	diff    lipgloss.Style
}

// newStyles binds styles to the destination so colors are only emitted on a terminal
func newStyles(destination io.Writer) styles {
	r := lipgloss.NewRenderer(destination)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		heading: r.NewStyle().Bold(true).Underline(true),
		label:   r.NewStyle().Width(12),
		muted:   r.NewStyle().Faint(true),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		diff:    r.NewStyle().Width(16).Bold(true),
	}
}

type textPrinter struct {
	w  io.Writer
	st styles
}

func newTextPrinter(w io.Writer, destination io.Writer) *textPrinter {
	return &textPrinter{w: w, st: newStyles(destination)}
}

func (p *textPrinter) line(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *textPrinter) field(label, value string) {
	p.line("  %s %s", p.st.label.Render(label), value)
}

func (p *textPrinter) parseResult(result *dto.ParseResult) {
	p.line("%s", p.st.title.Render("MRP Run Log"))
	p.runSummary(result.Run)

	if len(result.Entries) == 0 {
		return
	}
	p.line("")
	p.line("%s", p.st.heading.Render("Entries"))
	for _, entry := range result.Entries {
		p.line("  %5d  %-7s %s", entry.LineNumber, entry.EntryType, p.entryText(entry))
	}
}

func (p *textPrinter) entryText(entry entities.LogEntry) string {
	if entry.EntryType == entities.EntryError {
		return p.st.failure.Render(entry.RawLine)
	}
	return entry.RawLine
}

func (p *textPrinter) runSummary(run dto.RunSummary) {
	if run.Path != "" {
		p.field("Log", run.Path)
	}
	p.field("Site", orDash(run.Metadata.Site))
	p.field("Run type", string(run.Metadata.RunType))
	p.field("Status", p.status(run.Metadata.Status))
	p.field("Started", formatTime(run.Metadata.StartTime))
	p.field("Ended", formatTime(run.Metadata.EndTime))
	if duration := run.Metadata.Duration(); duration > 0 {
		p.field("Duration", duration.String())
	}
	p.field("Health", p.flags(run.Metadata.HealthFlags))
	p.field("Entries", fmt.Sprintf("%d (%d errors)", run.EntryCount, run.ErrorCount))
}

func (p *textPrinter) status(status entities.RunStatus) string {
	switch status {
	case entities.StatusSuccess:
		return p.st.success.Render(string(status))
	case entities.StatusFailed:
		return p.st.failure.Render(string(status))
	case entities.StatusIncomplete:
		return p.st.warning.Render(string(status))
	default:
		return p.st.muted.Render(string(status))
	}
}

func (p *textPrinter) flags(flags []entities.HealthFlag) string {
	if len(flags) == 0 {
		return p.st.muted.Render("none")
	}
	names := make([]string, len(flags))
	for i, flag := range flags {
		names[i] = string(flag)
	}
	return p.st.warning.Render(strings.Join(names, ", "))
}

func (p *textPrinter) analysis(result *dto.AnalysisResult) {
	p.line("%s %s", p.st.title.Render("MRP Run Comparison"), p.st.muted.Render(result.ComparisonID))
	p.line("")
	p.line("%s", p.st.heading.Render("Run A"))
	p.runSummary(result.RunA)
	p.line("")
	p.line("%s", p.st.heading.Render("Run B"))
	p.runSummary(result.RunB)
	p.line("")

	p.line("%s", p.st.heading.Render(fmt.Sprintf("Differences (%d)", len(result.Differences))))
	if len(result.Differences) == 0 {
		p.line("  %s", p.st.muted.Render("No differences detected"))
	}
	for _, diff := range result.Differences {
		p.difference(diff)
	}

	if len(result.Explanations) == 0 {
		return
	}
	p.line("")
	p.line("%s", p.st.heading.Render("Explanations"))
	for i, explanation := range result.Explanations {
		p.explanation(i+1, explanation)
	}
}

func (p *textPrinter) difference(diff entities.Difference) {
	subject := ""
	if diff.JobNumber != "" {
		subject = "job " + diff.JobNumber
	}
	if diff.PartNumber != "" {
		subject = strings.TrimSpace(subject + " part " + diff.PartNumber)
	}
	p.line("  %s %s %s", p.st.diff.Render(diff.Type.String()), orDash(subject), p.st.muted.Render(formatDetails(diff.Details)))
}

func (p *textPrinter) explanation(index int, explanation entities.Explanation) {
	p.line("")
	p.line("  %d. %s", index, p.st.title.Render(explanation.Summary))

	p.line("     %s", p.st.heading.Render("Facts"))
	for _, fact := range explanation.Facts {
		evidence := fact.LogEvidence
		if fact.LineNumber > 0 {
			evidence = fmt.Sprintf("line %d: %s", fact.LineNumber, fact.LogEvidence)
		}
		p.line("     - %s %s", fact.Statement, p.st.muted.Render("["+evidence+"]"))
	}

	p.line("     %s", p.st.heading.Render("Inferences"))
	for _, inference := range explanation.Inferences {
		p.line("     - %s %s", inference.Statement, p.st.warning.Render(formatConfidence(inference.ConfidenceLevel)))
		for _, reason := range inference.SupportingReasons {
			p.line("       * %s", reason)
		}
	}

	p.line("     %s", p.st.heading.Render("Next steps in Epicor"))
	for i, step := range explanation.NextStepsInEpicor {
		p.line("     %d) %s", i+1, step)
	}
}

func (p *textPrinter) batch(result *dto.BatchResult) {
	p.line("%s %s", p.st.title.Render("MRP Batch Comparison"), p.st.muted.Render(result.Manifest))
	p.line("  %d comparisons, %d failed", len(result.Items), result.Failed())

	for _, item := range result.Items {
		p.line("")
		if item.Result == nil {
			p.line("%s %s", p.st.heading.Render(item.Name), p.st.failure.Render(item.Error))
			continue
		}
		p.line("%s", p.st.heading.Render(item.Name))
		p.line("  %s -> %s: %d differences", item.Result.RunA.Path, item.Result.RunB.Path, len(item.Result.Differences))
		for _, diff := range item.Result.Differences {
			p.difference(diff)
		}
	}
}

// WriteTrace prints the recorded pipeline events, one per line
func WriteTrace(w io.Writer, recorded []events.Event) {
	st := newStyles(w)
	for _, event := range recorded {
		fmt.Fprintf(w, "%s v%d %s %s\n",
			st.muted.Render(event.Timestamp().Format(time.RFC3339)),
			event.Version(),
			st.diff.Render(event.Type()),
			event.StreamID())
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timeLayout)
}

func formatDetails(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}
	parts := make([]string, 0, len(details))
	for _, key := range slices.Sorted(maps.Keys(details)) {
		parts = append(parts, key+"="+details[key])
	}
	return strings.Join(parts, " ")
}

func formatConfidence(confidence float64) string {
	return fmt.Sprintf("(%.0f%% confidence)", confidence*100)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
