package history

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// FileStore appends records as JSON lines to a single file. Appending is
// cheap and crash-safe per line; List reads the whole file, which is fine
// for the volumes a personal listening history reaches.
type FileStore struct {
	path string
}

// NewFileStore creates a JSONL-backed store at path, creating parent
// directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "create history directory %s", dir)
		}
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Append writes the records as JSON lines.
func (s *FileStore) Append(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "open history file %s", s.path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "append history record")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "flush history file %s", s.path)
	}
	return nil
}

// List reads all records, deduplicates, and sorts by PlayedAt ascending.
// A store that has never been written to lists as empty.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open history file %s", s.path)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "corrupt history line in %s", s.path)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read history file %s", s.path)
	}

	records = Dedup(records)
	sort.Slice(records, func(i, j int) bool {
		return records[i].PlayedAt.Before(records[j].PlayedAt)
	})
	return records, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
