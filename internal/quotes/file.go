package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/me/spq/pkg/model"
)

// FileStore implements Store on a single JSON file holding the whole
// dataset as an array. Array order is the insertion order.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a store persisting to the given JSON file.
// The file is created on first seed, not here.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With("component", "quotes-store", "backend", "file"),
	}
}

// Close implements Store; the file store holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

// EnsureSeeded fetches and writes the dataset when the file is absent.
// The whole file is written in one shot, so a lost seeding race just
// rewrites identical content.
func (s *FileStore) EnsureSeeded(ctx context.Context, fetch FetchFunc) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	records, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("seed quotes: %w", err)
	}

	if err := s.write(records); err != nil {
		return err
	}

	s.logger.Info("quotes dataset seeded", "count", len(records))
	return nil
}

// ReadAll returns the persisted array in file order.
func (s *FileStore) ReadAll(ctx context.Context) ([]model.Quote, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read quotes %s: %w", s.path, err)
	}

	var out []model.Quote
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse quotes %s: %w", s.path, err)
	}
	return out, nil
}

// Update overwrites quote and character for the given id and persists the
// whole dataset. A missing id fails with model.ErrNotFound before any
// write happens.
func (s *FileStore) Update(ctx context.Context, id, quote, character string) (*model.Quote, error) {
	records, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range records {
		if records[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("quote %q: %w", id, model.ErrNotFound)
	}

	records[index].Quote = quote
	records[index].Character = character

	if err := s.write(records); err != nil {
		return nil, err
	}
	return &records[index], nil
}

func (s *FileStore) write(records []model.Quote) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quotes: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write quotes %s: %w", s.path, err)
	}
	return nil
}
