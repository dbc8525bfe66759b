package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrplog/pkg/domain/entities"
)

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	doc := entities.NewLogDocument()
	doc.Entries = append(doc.Entries, entities.LogEntry{LineNumber: 1, RawLine: "ERROR: x", EntryType: entities.EntryError})

	require.NoError(t, store.AppendEvent("run-a", NewLogParsedEvent("run-a", "a.log", doc)))
	require.NoError(t, store.AppendEvent("run-a", NewLogParsedEvent("run-a", "a.log", doc)))
	require.NoError(t, store.AppendEvent("run-b", NewLogParsedEvent("run-b", "b.log", doc)))

	events, err := store.ReadEvents("run-a", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Version())
	assert.Equal(t, 2, events[1].Version())

	parsed, ok := events[0].Data().(LogParsed)
	require.True(t, ok)
	assert.Equal(t, 1, parsed.EntryCount)
	assert.Equal(t, 1, parsed.ErrorCount)

	later, err := store.ReadEvents("run-a", 2)
	require.NoError(t, err)
	assert.Len(t, later, 1)

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 3, store.Len())

	assert.Equal(t, "run-b", all[2].StreamID())
	assert.Equal(t, 1, all[2].Version())

	missing, err := store.ReadEvents("nope", 1)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestInMemoryEventStore_RejectsEmptyStream(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	assert.Error(t, store.AppendEvent("", NewEvent(LogParsedEvent, "", nil)))
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	var mu sync.Mutex
	var seen []string
	handler := OnEvents(func(e Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.Type())
		return errors.New("handler errors are logged, not returned")
	}, RunsComparedEvent)
	assert.True(t, handler.CanHandle(RunsComparedEvent))
	assert.False(t, handler.CanHandle(LogParsedEvent))
	require.NoError(t, store.Subscribe([]string{RunsComparedEvent}, handler))

	comparison := &entities.LogComparison{ID: "cmp-1", Differences: []entities.Difference{{Type: entities.JobAdded}}}
	require.NoError(t, store.AppendEvent("cmp-1", NewRunsComparedEvent("a", "b", comparison)))
	require.NoError(t, store.AppendEvent("cmp-1", NewExplanationsGeneratedEvent("cmp-1", nil)))
	store.Flush()

	mu.Lock()
	assert.Equal(t, []string{RunsComparedEvent}, seen)
	mu.Unlock()

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent("cmp-1", NewRunsComparedEvent("a", "b", comparison)))
	store.Flush()

	mu.Lock()
	assert.Len(t, seen, 1)
	mu.Unlock()
}

func TestNewRunsComparedEvent_CountsByName(t *testing.T) {
	comparison := &entities.LogComparison{
		ID: "cmp-2",
		Differences: []entities.Difference{
			{Type: entities.JobRemoved},
			{Type: entities.JobRemoved},
			{Type: entities.ErrorResolved},
		},
	}

	event := NewRunsComparedEvent("a", "b", comparison)
	data := event.Data().(RunsCompared)

	assert.Equal(t, "cmp-2", event.StreamID())
	assert.Equal(t, 3, data.TotalDifferences)
	assert.Equal(t, map[string]int{"JobRemoved": 2, "ErrorResolved": 1}, data.DifferenceCounts)
}

func TestNewExplanationsGeneratedEvent_ConfidenceRange(t *testing.T) {
	explanations := []entities.Explanation{
		{Inferences: []entities.ExplanationInference{{ConfidenceLevel: 0.85}}},
		{Inferences: []entities.ExplanationInference{{ConfidenceLevel: 0.50}}},
		{Inferences: []entities.ExplanationInference{{ConfidenceLevel: 0.70}}},
	}

	data := NewExplanationsGeneratedEvent("cmp-3", explanations).Data().(ExplanationsGenerated)
	assert.Equal(t, 3, data.Count)
	assert.Equal(t, 0.50, data.LowestConfidence)
	assert.Equal(t, 0.85, data.HighestConfidence)
}
