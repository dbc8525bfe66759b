// Package mrplog is the embeddable entry point to MRP run log analysis:
// parse a run, compare two runs and explain what changed.
package mrplog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vsinha/mrplog/pkg/domain/services/explanation"
	"github.com/vsinha/mrplog/pkg/domain/services/logparser"
	"github.com/vsinha/mrplog/pkg/domain/services/rundiff"
)

// AnalyzerConfig holds configuration for an Analyzer
type AnalyzerConfig struct {
	// Location is applied to every timestamp read from a log (nil = UTC)
	Location *time.Location
	// CompletionMarkers extend the phrases that mark the end of a run
	CompletionMarkers []string
	// SkipExplanations compares runs without generating explanations
	SkipExplanations bool
}

// Analyzer parses, compares and explains MRP run logs
type Analyzer struct {
	config  AnalyzerConfig
	options []logparser.Option
}

// NewAnalyzer creates an analyzer with the default configuration
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(AnalyzerConfig{})
}

// NewAnalyzerWithConfig creates an analyzer with a custom configuration
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	var options []logparser.Option
	if config.Location != nil {
		options = append(options, logparser.WithLocation(config.Location))
	}
	if len(config.CompletionMarkers) > 0 {
		options = append(options, logparser.WithCompletionMarkers(config.CompletionMarkers...))
	}
	return &Analyzer{config: config, options: options}
}

// ParseLines parses the lines of one run log
func (a *Analyzer) ParseLines(lines []string) (*LogDocument, error) {
	return logparser.ParseDocument(lines, a.options...)
}

// ParseFile parses the run log at path
func (a *Analyzer) ParseFile(ctx context.Context, path string) (*LogDocument, error) {
	return logparser.ParseDocumentFile(ctx, path, a.options...)
}

// Compare compares run A with the later run B
func (a *Analyzer) Compare(linesA, linesB []string) (*Report, error) {
	runA, err := a.ParseLines(linesA)
	if err != nil {
		return nil, err
	}
	runB, err := a.ParseLines(linesB)
	if err != nil {
		return nil, err
	}
	return a.report(runA, runB), nil
}

// CompareFiles reads both logs concurrently and compares them
func (a *Analyzer) CompareFiles(ctx context.Context, pathA, pathB string) (*Report, error) {
	var runA, runB *LogDocument

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		runA, err = a.ParseFile(gctx, pathA)
		return err
	})
	g.Go(func() error {
		var err error
		runB, err = a.ParseFile(gctx, pathB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return a.report(runA, runB), nil
}

func (a *Analyzer) report(runA, runB *LogDocument) *Report {
	report := &Report{Comparison: rundiff.Compare(runA, runB)}
	if !a.config.SkipExplanations {
		report.Explanations = explanation.GenerateExplanations(report.Comparison)
	}
	return report
}
