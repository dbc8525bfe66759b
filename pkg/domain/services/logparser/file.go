package logparser

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/vsinha/mrplog/pkg/domain/entities"
	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
)

// maxLineBytes bounds a single log line; MRP engines occasionally dump very
// long pegging traces on one line.
const maxLineBytes = 1024 * 1024

// ParseLogFile reads a log file and extracts its run metadata.
func ParseLogFile(ctx context.Context, path string, opts ...Option) (*entities.RunMetadata, error) {
	doc, err := ParseDocumentFile(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return &doc.Metadata, nil
}

// ParseDocumentFile reads a log file and extracts metadata and entries.
// A path that does not name an existing regular file yields ErrNotFound.
func ParseDocumentFile(ctx context.Context, path string, opts ...Option) (*entities.LogDocument, error) {
	lines, err := ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(lines, opts...)
}

// ReadLines returns the lines of a log file without trailing newlines.
// The context is checked between lines.
func ReadLines(ctx context.Context, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, mrperrors.NewFileNotFoundError(path)
		}
		return nil, mrperrors.NewFileReadError(path, err)
	}
	if info.IsDir() {
		return nil, mrperrors.NewFileNotFoundError(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, mrperrors.NewFileReadError(path, err)
	}
	defer file.Close()

	lines := []string{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, mrperrors.NewFileReadError(path, err)
	}

	return lines, nil
}
