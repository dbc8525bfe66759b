package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/mrplog/pkg/application/dto"
	"github.com/vsinha/mrplog/pkg/domain/entities"
	"github.com/vsinha/mrplog/pkg/domain/repositories"
	"github.com/vsinha/mrplog/pkg/domain/services/explanation"
	"github.com/vsinha/mrplog/pkg/domain/services/logparser"
	"github.com/vsinha/mrplog/pkg/domain/services/rundiff"
	"github.com/vsinha/mrplog/pkg/infrastructure/events"
	"github.com/vsinha/mrplog/pkg/infrastructure/logging"
	"github.com/vsinha/mrplog/pkg/infrastructure/repositories/csv"
)

const moduleName = "orchestration"

// AnalysisOrchestrator coordinates parsing, run storage, comparison and
// explanation for the CLI
type AnalysisOrchestrator struct {
	runRepo      repositories.RunRepository
	eventStore   events.EventStore
	loader       *csv.Loader
	logger       *logrus.Logger
	parseOptions []logparser.Option
	now          func() time.Time

	pathsMutex sync.RWMutex
	paths      map[string]string
}

// NewAnalysisOrchestrator creates a new analysis orchestrator
func NewAnalysisOrchestrator(
	runRepo repositories.RunRepository,
	eventStore events.EventStore,
	logger *logrus.Logger,
	parseOptions ...logparser.Option,
) *AnalysisOrchestrator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AnalysisOrchestrator{
		runRepo:      runRepo,
		eventStore:   eventStore,
		loader:       csv.NewLoader(),
		logger:       logger,
		parseOptions: parseOptions,
		now:          time.Now,
		paths:        make(map[string]string),
	}
}

// CompareOptions controls a comparison
type CompareOptions struct {
	Explain bool
}

// ParseFile parses a run log, stores it under its path and returns a summary
func (o *AnalysisOrchestrator) ParseFile(ctx context.Context, path string, includeEntries bool) (*dto.ParseResult, error) {
	doc, err := o.LoadRun(ctx, path, path)
	if err != nil {
		return nil, err
	}

	result := &dto.ParseResult{Run: dto.NewRunSummary(path, path, doc)}
	if includeEntries {
		result.Entries = doc.Entries
	}
	return result, nil
}

// LoadRun parses the log at path and saves it in the run repository under runID
func (o *AnalysisOrchestrator) LoadRun(ctx context.Context, runID, path string) (*entities.LogDocument, error) {
	start := time.Now()
	doc, err := logparser.ParseDocumentFile(ctx, path, o.parseOptions...)
	if err != nil {
		logging.LogError(o.logger, moduleName, "LoadRun", "parse log file", map[string]string{"path": path}, err)
		return nil, fmt.Errorf("failed to parse run %s: %w", runID, err)
	}

	if err := o.runRepo.SaveRun(runID, doc); err != nil {
		return nil, fmt.Errorf("failed to store run %s: %w", runID, err)
	}
	o.pathsMutex.Lock()
	o.paths[runID] = path
	o.pathsMutex.Unlock()

	o.logger.WithFields(logrus.Fields{
		"module":   moduleName,
		"run":      runID,
		"entries":  len(doc.Entries),
		"status":   doc.Metadata.Status,
		"run_type": doc.Metadata.RunType,
		"elapsed":  time.Since(start).String(),
	}).Debug("parsed run log")

	o.publish(runID, events.NewLogParsedEvent(runID, path, doc))
	return doc, nil
}

// CompareFiles parses both logs concurrently, then compares them
func (o *AnalysisOrchestrator) CompareFiles(ctx context.Context, pathA, pathB string, opts CompareOptions) (*dto.AnalysisResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := o.LoadRun(gctx, pathA, pathA)
		return err
	})
	if pathB != pathA {
		g.Go(func() error {
			_, err := o.LoadRun(gctx, pathB, pathB)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return o.CompareRuns(ctx, pathA, pathB, opts)
}

// CompareRuns compares two runs already in the repository
func (o *AnalysisOrchestrator) CompareRuns(ctx context.Context, runIDA, runIDB string, opts CompareOptions) (*dto.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runA, err := o.runRepo.GetRun(runIDA)
	if err != nil {
		return nil, fmt.Errorf("failed to load run A: %w", err)
	}
	runB, err := o.runRepo.GetRun(runIDB)
	if err != nil {
		return nil, fmt.Errorf("failed to load run B: %w", err)
	}

	comparison := rundiff.Compare(runA, runB)
	o.publish(comparison.ID, events.NewRunsComparedEvent(runIDA, runIDB, comparison))

	var explanations []entities.Explanation
	if opts.Explain {
		explanations = explanation.GenerateExplanations(comparison)
		o.publish(comparison.ID, events.NewExplanationsGeneratedEvent(comparison.ID, explanations))
	}

	o.logger.WithFields(logrus.Fields{
		"module":      moduleName,
		"comparison":  comparison.ID,
		"differences": len(comparison.Differences),
	}).Info("compared runs")

	return dto.NewAnalysisResult(
		comparison,
		dto.NewRunSummary(runIDA, o.sourcePath(runIDA), &comparison.RunA),
		dto.NewRunSummary(runIDB, o.sourcePath(runIDB), &comparison.RunB),
		explanations,
		o.now(),
	), nil
}

// RunBatch compares every run pair listed in a CSV manifest. A failing row is
// recorded on its item and does not stop the batch.
func (o *AnalysisOrchestrator) RunBatch(ctx context.Context, manifest string, opts CompareOptions) (*dto.BatchResult, error) {
	pairs, err := o.loader.LoadRunPairs(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	batch := &dto.BatchResult{Manifest: manifest}
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := dto.BatchItem{Name: pair.Name}
		result, err := o.CompareFiles(ctx, pair.RunA, pair.RunB, opts)
		if err != nil {
			logging.LogError(o.logger, moduleName, "RunBatch", "compare run pair", pair, err)
			item.Error = err.Error()
		} else {
			item.Result = result
		}
		batch.Items = append(batch.Items, item)
	}

	o.publish(manifest, events.NewBatchCompletedEvent(manifest, len(batch.Items), batch.Failed()))
	return batch, nil
}

func (o *AnalysisOrchestrator) publish(streamID string, event events.Event) {
	if o.eventStore == nil {
		return
	}
	if err := o.eventStore.AppendEvent(streamID, event); err != nil {
		o.logger.WithFields(logrus.Fields{
			"module":     moduleName,
			"event_type": event.Type(),
		}).WithError(err).Warn("failed to publish event")
	}
}

func (o *AnalysisOrchestrator) sourcePath(runID string) string {
	o.pathsMutex.RLock()
	defer o.pathsMutex.RUnlock()
	return o.paths[runID]
}
