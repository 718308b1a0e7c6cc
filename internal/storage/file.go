package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tokmeter/tokmeter/internal/types"
)

// csvHeaders is the fixed column order for CSV export.
var csvHeaders = []string{
	"url", "id", "author", "caption",
	"views", "likes", "shares", "comments",
	"hashtags", "format", "fetched_at",
}

// --- Stdout Storage ---

// StdoutStorage prints records as indented JSON to a writer (stdout by
// default). A single record prints as an object, several as an array.
type StdoutStorage struct {
	w       io.Writer
	records []*types.VideoRecord
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewStdoutStorage creates a stdout storage writing to w; nil means
// os.Stdout.
func NewStdoutStorage(w io.Writer, logger *slog.Logger) *StdoutStorage {
	if w == nil {
		w = os.Stdout
	}
	return &StdoutStorage{
		w:      w,
		logger: logger.With("component", "stdout_storage"),
	}
}

func (s *StdoutStorage) Name() string { return "stdout" }

func (s *StdoutStorage) Store(records []*types.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *StdoutStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if len(s.records) == 1 {
		return enc.Encode(s.records[0])
	}
	return enc.Encode(s.records)
}

// --- JSON Storage ---

// JSONStorage writes records as a JSON array to a file.
type JSONStorage struct {
	path    string
	records []*types.VideoRecord
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewJSONStorage creates a new JSON file storage.
func NewJSONStorage(outputPath string, logger *slog.Logger) (*JSONStorage, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &JSONStorage{
		path:   outputPath,
		logger: logger.With("component", "json_storage"),
	}, nil
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) Store(records []*types.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	s.logger.Debug("records buffered", "count", len(records), "total", len(s.records))
	return nil
}

func (s *JSONStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.records); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	s.logger.Info("JSON written", "path", s.path, "records", len(s.records))
	return nil
}

// --- JSONL Storage ---

// JSONLStorage writes records as newline-delimited JSON, streaming.
type JSONLStorage struct {
	path   string
	file   *os.File
	enc    *json.Encoder
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewJSONLStorage creates a new JSONL file storage.
func NewJSONLStorage(outputPath string, logger *slog.Logger) (*JSONLStorage, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)

	return &JSONLStorage{
		path:   outputPath,
		file:   f,
		enc:    enc,
		logger: logger.With("component", "jsonl_storage"),
	}, nil
}

func (s *JSONLStorage) Name() string { return "jsonl" }

func (s *JSONLStorage) Store(records []*types.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if err := s.enc.Encode(rec); err != nil {
			return fmt.Errorf("encode JSONL: %w", err)
		}
		s.count++
	}
	return nil
}

func (s *JSONLStorage) Close() error {
	s.logger.Info("JSONL written", "path", s.path, "records", s.count)
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// --- CSV Storage ---

// CSVStorage writes records as CSV rows.
type CSVStorage struct {
	path    string
	file    *os.File
	writer  *csv.Writer
	wroteHd bool
	mu      sync.Mutex
	count   int
	logger  *slog.Logger
}

// NewCSVStorage creates a new CSV file storage.
func NewCSVStorage(outputPath string, logger *slog.Logger) (*CSVStorage, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	return &CSVStorage{
		path:   outputPath,
		file:   f,
		writer: csv.NewWriter(f),
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) Store(records []*types.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.wroteHd {
		if err := s.writer.Write(csvHeaders); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		s.wroteHd = true
	}

	for _, rec := range records {
		flat := rec.ToFlatMap()
		row := make([]string, len(csvHeaders))
		for i, h := range csvHeaders {
			row[i] = flat[h]
		}
		if err := s.writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
		s.count++
	}

	s.writer.Flush()
	return s.writer.Error()
}

func (s *CSVStorage) Close() error {
	s.logger.Info("CSV written", "path", s.path, "records", s.count)
	if s.writer != nil {
		s.writer.Flush()
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// NewFileStorage creates the appropriate storage backend by type.
func NewFileStorage(storageType, outputDir string, logger *slog.Logger) (Storage, error) {
	var (
		s   Storage
		err error
	)
	switch storageType {
	case "stdout":
		return NewStdoutStorage(nil, logger), nil
	case "json":
		s, err = NewJSONStorage(filepath.Join(outputDir, "results.json"), logger)
	case "jsonl":
		s, err = NewJSONLStorage(filepath.Join(outputDir, "results.jsonl"), logger)
	case "csv":
		s, err = NewCSVStorage(filepath.Join(outputDir, "results.csv"), logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
	if err != nil {
		return nil, &types.StorageError{Backend: storageType, Err: err}
	}
	return s, nil
}
