package csv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadRunPairs(t *testing.T) {
	path := writeManifest(t, "name,run_a,run_b\n"+
		"# nightly comparisons\n"+
		"monday, logs/mon.log, logs/tue.log\n"+
		"absolute,/var/log/a.log,/var/log/b.log\n")

	pairs, err := NewLoader().LoadRunPairs(path)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	baseDir := filepath.Dir(path)
	assert.Equal(t, RunPair{
		Name: "monday",
		RunA: filepath.Join(baseDir, "logs/mon.log"),
		RunB: filepath.Join(baseDir, "logs/tue.log"),
	}, pairs[0])
	assert.Equal(t, "/var/log/a.log", pairs[1].RunA)
}

func TestLoader_LoadRunPairs_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		contains string
	}{
		{"header only", "name,run_a,run_b\n", "at least one data row"},
		{"wrong header", "id,first,second\nx,a.log,b.log\n", "header mismatch"},
		{"missing path", "name,run_a,run_b\nx,a.log,\n", "both run_a and run_b"},
		{"empty name", "name,run_a,run_b\n,a.log,b.log\n", "name cannot be empty"},
		{"duplicate name", "name,run_a,run_b\nx,a.log,b.log\nx,c.log,d.log\n", "duplicate name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadRunPairs(writeManifest(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoader_LoadRunPairs_NotFound(t *testing.T) {
	_, err := NewLoader().LoadRunPairs(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mrperrors.ErrNotFound))
}
