package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/me/spq/pkg/model"
)

// CredentialStore serves the static user dataset from disk.
//
// The dataset is read and parsed at most once per process; there is no
// reload API, so edits to the file on disk require a restart.
type CredentialStore struct {
	path   string
	logger *slog.Logger

	once  sync.Once
	users []model.UserAccount
	err   error
}

// NewCredentialStore creates a store reading from the given JSON file.
// The file is not touched until the first lookup.
func NewCredentialStore(path string, logger *slog.Logger) *CredentialStore {
	return &CredentialStore{
		path:   path,
		logger: logger.With("component", "credentials"),
	}
}

// Users returns the full account list, loading it on first use.
// A read or parse failure is sticky: every subsequent call returns it.
func (s *CredentialStore) Users() ([]model.UserAccount, error) {
	s.once.Do(func() {
		data, err := os.ReadFile(s.path)
		if err != nil {
			s.err = fmt.Errorf("read users %s: %w", s.path, err)
			return
		}
		if err := json.Unmarshal(data, &s.users); err != nil {
			s.err = fmt.Errorf("parse users %s: %w", s.path, err)
			return
		}
		s.logger.Debug("credential dataset loaded", "path", s.path, "users", len(s.users))
	})
	return s.users, s.err
}

// FindByCredentials returns the first account matching both fields
// exactly, or nil when no account matches. Usernames are expected to be
// unique within the dataset, so first match is deterministic in practice.
func (s *CredentialStore) FindByCredentials(username, password string) (*model.UserAccount, error) {
	users, err := s.Users()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username && users[i].Password == password {
			return &users[i], nil
		}
	}
	return nil, nil
}
