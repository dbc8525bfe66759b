// Package logparser turns free-text MRP run logs into run metadata and
// structured entries.
//
// Parsing is a single pass over the lines. Matching is case-insensitive and
// anything the parser does not recognize is ignored, so malformed or partial
// logs degrade to default values rather than errors. The only error returned
// for in-memory content is a nil line slice.
package logparser

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/vsinha/mrplog/pkg/domain/entities"
	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
)

var defaultCompletionMarkers = []string{
	"process complete",
	"processing complete",
	"mrp complete",
}

type options struct {
	location          *time.Location
	completionMarkers []string
}

// Option configures a parse call.
type Option func(*options)

// WithLocation sets the time zone applied to parsed dates and times.
// Explicit "... UTC" timestamps are always read as UTC. Default: UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithCompletionMarkers adds phrases that mark the end of a run in addition
// to "process complete", "processing complete" and "mrp complete".
func WithCompletionMarkers(markers ...string) Option {
	return func(o *options) {
		for _, marker := range markers {
			marker = strings.TrimSpace(marker)
			if marker != "" {
				o.completionMarkers = append(o.completionMarkers, marker)
			}
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		location:          time.UTC,
		completionMarkers: append([]string(nil), defaultCompletionMarkers...),
	}
	for _, opt := range opts {
		opt(&o)
	}
	caser := cases.Fold()
	for i, marker := range o.completionMarkers {
		o.completionMarkers[i] = caser.String(marker)
	}
	return o
}

// ParseLogContent extracts run metadata from log lines.
// A nil slice is rejected; an empty or blank log yields default metadata.
func ParseLogContent(lines []string, opts ...Option) (*entities.RunMetadata, error) {
	doc, err := ParseDocument(lines, opts...)
	if err != nil {
		return nil, err
	}
	return &doc.Metadata, nil
}

// ParseDocument extracts run metadata and per-line entries from log lines.
func ParseDocument(lines []string, opts ...Option) (*entities.LogDocument, error) {
	if lines == nil {
		return nil, mrperrors.NewNilLinesError()
	}

	o := buildOptions(opts)
	// Casers are stateful, so each call gets its own.
	caser := cases.Fold()

	doc := entities.NewLogDocument()
	folded := make([]string, len(lines))
	clock := newClock(o.location)

	var (
		site          string
		start, end    *time.Time
		explicitStart bool
		explicitEnd   bool
	)

	for i, line := range lines {
		folded[i] = caser.String(line)

		if site == "" {
			site = matchSite(line)
		}

		ts, kind := clock.observe(line)
		if ts != nil {
			switch kind {
			case stampExplicitStart:
				if !explicitStart {
					start = ts
					explicitStart = true
				}
			case stampExplicitEnd:
				end = ts
				explicitEnd = true
			default:
				if start == nil {
					start = ts
				}
				if !explicitEnd && isCompletionLine(folded[i], o.completionMarkers) {
					end = ts
				}
			}
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		doc.Entries = append(doc.Entries, buildEntry(i+1, line, folded[i], ts, o.location))
	}

	flags := detectHealthFlags(folded)
	doc.Metadata = entities.RunMetadata{
		Site:        site,
		StartTime:   start,
		EndTime:     end,
		RunType:     detectRunType(folded),
		HealthFlags: flags,
	}
	doc.Metadata.Status = deriveStatus(flags, start, end)

	return doc, nil
}

func isCompletionLine(foldedLine string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(foldedLine, marker) {
			return true
		}
	}
	return false
}
