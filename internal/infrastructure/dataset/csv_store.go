package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
)

const utf8BOM = "\ufeff"

// ctxCheckEvery is how many rows are read between cancellation checks.
const ctxCheckEvery = 4096

// CSVStore reads and writes comma-separated datasets on the local filesystem.
type CSVStore struct{}

// NewCSVStore creates a new CSVStore instance.
func NewCSVStore() *CSVStore {
	return &CSVStore{}
}

// ReadTable loads a CSV file with a header row. Rows may have fewer or
// more cells than the header.
func (s *CSVStore) ReadTable(ctx context.Context, path string) (model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return model.RawTable{}, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%s: read header: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := model.RawTable{Header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.RawTable{}, fmt.Errorf("%s: %w", path, err)
		}
		table.Rows = append(table.Rows, rec)

		if len(table.Rows)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return model.RawTable{}, err
			}
		}
	}
	return table, nil
}

// WriteTable writes the table to a temporary file beside path and renames
// it into place, so readers never observe a partial dataset.
func (s *CSVStore) WriteTable(ctx context.Context, path string, table model.RawTable) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(table.Header); err != nil {
		return err
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Fingerprint returns the xxhash64 of the file contents as 16 hex digits.
func (s *CSVStore) Fingerprint(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
