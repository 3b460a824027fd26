package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const TokenKey = "POSTHASTE_TOKEN"

// Store keeps the bearer token between invocations.
type Store interface {
	Load() (string, error)
	Persist(token string) error
}

// FileStore keeps credentials in a dotenv file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (string, error) {
	env, err := s.read()
	if err != nil {
		return "", err
	}
	return env[TokenKey], nil
}

func (s *FileStore) Persist(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}

	env, err := s.read()
	if err != nil {
		return err
	}
	env[TokenKey] = token

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}

	if err := godotenv.Write(env, s.path); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}

	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("restrict credentials permissions: %w", err)
	}

	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	env, err := godotenv.Read(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	return env, nil
}
