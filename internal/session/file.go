package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mtlprog/nexa/internal/domain"
)

type fileSession struct {
	Token     string    `json:"auth_token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileStore keeps the session in a JSON file readable only by the owner.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Get loads the session, reporting domain.ErrSessionExpired once it is stale.
func (s *FileStore) Get(_ context.Context) (domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Session{}, domain.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var fsess fileSession
	if err := json.Unmarshal(data, &fsess); err != nil {
		return domain.Session{}, fmt.Errorf("parse session file: %w", err)
	}
	if fsess.Token == "" {
		return domain.Session{}, domain.ErrNoSession
	}
	if !s.now().Before(fsess.ExpiresAt) {
		return domain.Session{}, domain.ErrSessionExpired
	}

	return domain.Session{Token: fsess.Token, TokenType: fsess.TokenType, ExpiresAt: fsess.ExpiresAt}, nil
}

// Set overwrites the session file.
func (s *FileStore) Set(_ context.Context, token, tokenType string, ttl time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.Marshal(fileSession{
		Token:     token,
		TokenType: tokenType,
		ExpiresAt: s.now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear deletes the session file. A missing file is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
