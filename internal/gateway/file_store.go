package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"billing-reconciliation/internal/domain"
)

// Layout of a store, relative to its root.
const (
	draftsDir  = "drafts"
	actualsDir = "actuals"
	reportsDir = "reports"
)

// FileStore reads drafts and actuals from a local directory tree laid out as
// drafts/<period>.json and actuals/<period>.json, each optionally gzipped
// (<period>.json.gz). It archives reports as reports/<period>.json.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// GetDrafts reads the draft records for period.
func (s *FileStore) GetDrafts(ctx context.Context, period string) ([]domain.Record, error) {
	return s.read(ctx, draftsDir, period)
}

// GetActuals reads the actual invoice records for period.
func (s *FileStore) GetActuals(ctx context.Context, period string) ([]domain.Record, error) {
	return s.read(ctx, actualsDir, period)
}

func (s *FileStore) read(ctx context.Context, dir, period string) ([]domain.Record, error) {
	if err := validPeriod(period); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range []string{period + ".json", period + ".json.gz"} {
		path := filepath.Join(s.root, dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		records, err := decodeMaybeGzip(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return records, nil
	}
	return nil, fmt.Errorf("no %s file for period %s under %s: %w", dir, period, s.root, fs.ErrNotExist)
}

// SaveReport writes the run payload to reports/<period>.json, replacing any
// earlier report for the same period.
func (s *FileStore) SaveReport(ctx context.Context, run domain.Run) error {
	if err := validPeriod(run.Period); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(run.Payload, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode report: %w", err)
	}
	dir := filepath.Join(s.root, reportsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create %s: %w", dir, err)
	}

	// Readers never see a partial report.
	tmp, err := os.CreateTemp(dir, run.Period+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, run.Period+".json"))
}
