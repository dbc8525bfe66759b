package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/mrplog/pkg/application/dto"
	mrperrors "github.com/vsinha/mrplog/pkg/domain/errors"
)

// Base names of the files written when an output directory is configured
const (
	ParseFileName   = "mrplog_parse"
	CompareFileName = "mrplog_compare"
	BatchFileName   = "mrplog_batch"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	// Out receives rendered results, or the saved file path when OutputDir is set.
	// Defaults to stdout.
	Out io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// document is one result ready for any of the supported formats
type document struct {
	name  string
	value interface{}
	text  func(p *textPrinter)
	sheet func(w *workbook) error
}

// WriteParseResult renders the result of parsing one run log
func WriteParseResult(result *dto.ParseResult, config Config) error {
	return write(document{
		name:  ParseFileName,
		value: result,
		text:  func(p *textPrinter) { p.parseResult(result) },
		sheet: func(w *workbook) error { return w.parseResult(result) },
	}, config)
}

// WriteAnalysis renders a run comparison and its explanations
func WriteAnalysis(result *dto.AnalysisResult, config Config) error {
	return write(document{
		name:  CompareFileName,
		value: result,
		text:  func(p *textPrinter) { p.analysis(result) },
		sheet: func(w *workbook) error { return w.analysis(result) },
	}, config)
}

// WriteBatch renders every comparison of a batch manifest
func WriteBatch(result *dto.BatchResult, config Config) error {
	return write(document{
		name:  BatchFileName,
		value: result,
		text:  func(p *textPrinter) { p.batch(result) },
		sheet: func(w *workbook) error { return w.batch(result) },
	}, config)
}

func write(doc document, config Config) error {
	var (
		data []byte
		ext  string
		err  error
	)

	switch config.Format {
	case "", "text":
		ext = "txt"
		data = renderText(doc, config)
	case "json":
		ext = "json"
		data, err = json.MarshalIndent(doc.value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		data = append(data, '\n')
	case "yaml":
		ext = "yaml"
		data, err = yaml.Marshal(doc.value)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case "xlsx":
		return writeWorkbook(doc, config)
	default:
		return mrperrors.NewUnsupportedFormatError(config.Format)
	}

	if config.OutputDir == "" {
		if _, err := config.out().Write(data); err != nil {
			return mrperrors.NewOutputError("stdout", err)
		}
		return nil
	}

	path, err := outputPath(config.OutputDir, doc.name, ext)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return mrperrors.NewOutputError(path, err)
	}
	return announce(config, path)
}

func renderText(doc document, config Config) []byte {
	var buf bytes.Buffer
	target := config.out()
	if config.OutputDir != "" {
		target = &buf
	}
	printer := newTextPrinter(&buf, target)
	doc.text(printer)
	return buf.Bytes()
}

func writeWorkbook(doc document, config Config) error {
	if config.OutputDir == "" {
		return mrperrors.NewOutputError("xlsx", errors.New("an output directory is required")).
			WithSuggestion("Pass --output <dir> or set MRPLOG_OUTPUT_DIR")
	}

	path, err := outputPath(config.OutputDir, doc.name, "xlsx")
	if err != nil {
		return err
	}

	w := newWorkbook()
	defer w.close()

	if err := doc.sheet(w); err != nil {
		return mrperrors.NewOutputError(path, err)
	}
	if err := w.saveAs(path); err != nil {
		return mrperrors.NewOutputError(path, err)
	}
	return announce(config, path)
}

func outputPath(dir, name, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", mrperrors.Wrap(mrperrors.ErrCodeDirectoryFailure,
			fmt.Sprintf("failed to create output directory: %s", dir), err)
	}
	return filepath.Join(dir, name+"."+ext), nil
}

func announce(config Config, path string) error {
	if _, err := fmt.Fprintf(config.out(), "Results saved to: %s\n", path); err != nil {
		return mrperrors.NewOutputError("stdout", err)
	}
	return nil
}
