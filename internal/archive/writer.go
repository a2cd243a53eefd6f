// Package archive persists raw extraction batches as JSON files.
//
// Archived batches are an audit trail and replay input; the running
// pipeline writes them and never reads them back.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jlenormand/equity-metrics/internal/model"
)

// Writer writes one timestamped snapshot file per pipeline run.
type Writer struct {
	dir string
}

// NewWriter creates a writer targeting dir. The directory is created lazily
// on first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteBatch writes the batch to raw_batch_<timestamp>.json and returns the
// file path. The timestamp comes from the batch itself so a rewrite of the
// same batch lands on the same file.
func (w *Writer) WriteBatch(batch *model.RawBatch) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal batch: %w", err)
	}

	name := fmt.Sprintf("raw_batch_%s.json", batch.ExtractedAt.UTC().Format("20060102T150405Z"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write batch file: %w", err)
	}

	return path, nil
}

// ReadBatch loads an archived batch from a file written by WriteBatch.
func ReadBatch(path string) (*model.RawBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var batch model.RawBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}

	return &batch, nil
}
