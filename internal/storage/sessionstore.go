package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kvasnytsia/famplan/pkg/models"
)

// SessionManager persists the signed-in user's session under the base
// path. It replaces the ambient browser storage of earlier planner
// clients with an explicit store: constructed at app start, cleared on
// logout, injected into whatever needs the token.
type SessionManager interface {
	Load() error
	Save(session models.Session) error
	Clear() error
	Current() (models.Session, bool)
	Token() (string, bool)
}

type fileSessionStore struct {
	basePath string
	session  *models.Session
}

// NewSessionManager creates a SessionManager backed by a session.yaml
// file in the given base directory.
func NewSessionManager(basePath string) SessionManager {
	return &fileSessionStore{basePath: basePath}
}

func (s *fileSessionStore) filePath() string {
	return filepath.Join(s.basePath, "session.yaml")
}

// Load reads the session file. A missing file is not an error; it just
// means nobody is signed in.
func (s *fileSessionStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			s.session = nil
			return nil
		}
		return fmt.Errorf("loading session: %w", err)
	}

	var session models.Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("loading session: parsing YAML: %w", err)
	}
	s.session = &session
	return nil
}

// Save writes the session to disk and makes it current.
func (s *fileSessionStore) Save(session models.Session) error {
	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now().UTC()
	}

	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("saving session: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&session)
	if err != nil {
		return fmt.Errorf("saving session: marshaling YAML: %w", err)
	}
	if err := os.WriteFile(s.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving session: writing file: %w", err)
	}
	s.session = &session
	return nil
}

// Clear removes the session file and forgets the current session.
func (s *fileSessionStore) Clear() error {
	if err := os.Remove(s.filePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.session = nil
	return nil
}

// Current returns the loaded session, if any.
func (s *fileSessionStore) Current() (models.Session, bool) {
	if s.session == nil {
		return models.Session{}, false
	}
	return *s.session, true
}

// Token returns the bearer token of the current session. It satisfies
// the service.TokenSource interface.
func (s *fileSessionStore) Token() (string, bool) {
	if s.session == nil || s.session.Token == "" {
		return "", false
	}
	return s.session.Token, true
}
