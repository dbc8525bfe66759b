package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/mrplog/pkg/domain/entities"
	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
	"github.com/vsinha/mrplog/pkg/domain/repositories"
)

// RunRepository provides in-memory storage of parsed runs
type RunRepository struct {
	runs    []entities.LogDocument
	runsMap map[string]int
	ids     []string
	mutex   sync.RWMutex
}

// NewRunRepository creates a new in-memory run repository
func NewRunRepository(expectedRuns int) *RunRepository {
	return &RunRepository{
		runs:    make([]entities.LogDocument, 0, expectedRuns),
		runsMap: make(map[string]int, expectedRuns),
		ids:     make([]string, 0, expectedRuns),
	}
}

// Verify interface compliance
var _ repositories.RunRepository = (*RunRepository)(nil)

// SaveRun stores a parsed run, replacing any run saved under the same ID
func (r *RunRepository) SaveRun(runID string, doc *entities.LogDocument) error {
	if runID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if doc == nil {
		return fmt.Errorf("run %s: document cannot be nil", runID)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if index, exists := r.runsMap[runID]; exists {
		r.runs[index] = *doc
		return nil
	}
	r.runsMap[runID] = len(r.runs)
	r.runs = append(r.runs, *doc)
	r.ids = append(r.ids, runID)
	return nil
}

// GetRun returns a stored run
func (r *RunRepository) GetRun(runID string) (*entities.LogDocument, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	index, exists := r.runsMap[runID]
	if !exists {
		return nil, mrperrors.NewRunNotLoadedError(runID)
	}
	doc := r.runs[index]
	return &doc, nil
}

// GetAllRunIDs returns run IDs in the order they were first saved
func (r *RunRepository) GetAllRunIDs() ([]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return ids, nil
}

// DeleteRun removes a stored run
func (r *RunRepository) DeleteRun(runID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	index, exists := r.runsMap[runID]
	if !exists {
		return mrperrors.NewRunNotLoadedError(runID)
	}

	r.runs = append(r.runs[:index], r.runs[index+1:]...)
	r.ids = append(r.ids[:index], r.ids[index+1:]...)
	delete(r.runsMap, runID)
	for i := index; i < len(r.ids); i++ {
		r.runsMap[r.ids[i]] = i
	}
	return nil
}

// Count returns the number of stored runs
func (r *RunRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.runs)
}
