package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
)

// RunPair names two run logs to compare
type RunPair struct {
	Name string
	RunA string
	RunB string
}

// Loader reads batch comparison manifests from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRunPairs loads run pairs from a manifest with header name,run_a,run_b.
// Relative log paths are resolved against the manifest's directory.
func (l *Loader) LoadRunPairs(filename string) ([]RunPair, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mrperrors.NewFileNotFoundError(filename)
		}
		return nil, mrperrors.NewFileReadError(filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("manifest CSV must have header and at least one data row")
	}

	// Validate header
	expectedHeader := []string{"name", "run_a", "run_b"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("manifest CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	baseDir := filepath.Dir(filename)
	seen := make(map[string]bool)
	var pairs []RunPair
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("manifest CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		pair, err := parseRunPair(record, baseDir)
		if err != nil {
			return nil, fmt.Errorf("manifest CSV row %d: %w", i+2, err)
		}
		if seen[pair.Name] {
			return nil, fmt.Errorf("manifest CSV row %d: duplicate name %s", i+2, pair.Name)
		}
		seen[pair.Name] = true

		pairs = append(pairs, pair)
	}

	return pairs, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseRunPair(record []string, baseDir string) (RunPair, error) {
	pair := RunPair{
		Name: strings.TrimSpace(record[0]),
		RunA: strings.TrimSpace(record[1]),
		RunB: strings.TrimSpace(record[2]),
	}
	if pair.Name == "" {
		return RunPair{}, fmt.Errorf("name cannot be empty")
	}
	if pair.RunA == "" || pair.RunB == "" {
		return RunPair{}, fmt.Errorf("both run_a and run_b are required")
	}

	pair.RunA = resolvePath(pair.RunA, baseDir)
	pair.RunB = resolvePath(pair.RunB, baseDir)
	return pair, nil
}

func resolvePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
