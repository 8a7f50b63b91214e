package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/teresajurado/specslope/logging"
	"github.com/teresajurado/specslope/specslope"
)

// FileStore keeps one record per key in a directory. Writes land in a
// temporary file in the same directory and are renamed into place, so a
// concurrent reader never observes a partial record.
type FileStore struct {
	root   string
	logger logging.Logger
}

// NewFileStore creates the directory if needed and returns a store rooted
// at it.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{
		root: root,
		logger: logging.WithFields(logging.Fields{
			"component": "cache",
			"backend":   "file",
		}),
	}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.root, key+recordSuffix)
}

// Load reads and decodes the record for key. A missing file reports
// specslope.ErrCacheMiss.
func (s *FileStore) Load(_ context.Context, key string) (*specslope.SlopeSeries, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", specslope.ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache record: %w", err)
	}
	return decodeSeries(data)
}

// Save encodes series and replaces any existing record for key.
func (s *FileStore) Save(_ context.Context, key string, series *specslope.SlopeSeries) error {
	data, err := encodeSeries(series)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary record: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temporary record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing cache record: %w", err)
	}

	s.logger.Debug("cache record written", logging.Fields{
		"key":   key,
		"bytes": len(data),
	})
	return nil
}

var _ specslope.ResultStore = (*FileStore)(nil)
