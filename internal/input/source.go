package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"posthaste/pkg/apperr"
)

// Source is one piece of text to upload.
type Source interface {
	Name() string
	Read() ([]byte, error)
}

type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: ExpandHome(path)}
}

func (s *FileSource) Name() string {
	return s.path
}

func (s *FileSource) Read() ([]byte, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NewFileNotFound(s.path, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if info.IsDir() {
		return nil, apperr.NewFileNotFound(s.path, nil)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	if isBlank(data) {
		return nil, apperr.NewEmptyInput(s.path)
	}
	return data, nil
}

type StdinSource struct {
	r io.Reader
}

func NewStdinSource(r io.Reader) *StdinSource {
	return &StdinSource{r: r}
}

func (s *StdinSource) Name() string {
	return "stdin"
}

func (s *StdinSource) Read() ([]byte, error) {
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	if isBlank(data) {
		return nil, apperr.NewNoInput()
	}
	return data, nil
}

// FromArgs returns a file source per path, or a single stdin source when no
// paths are given.
func FromArgs(paths []string, stdin io.Reader) []Source {
	if len(paths) == 0 {
		return []Source{NewStdinSource(stdin)}
	}

	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, NewFileSource(p))
	}
	return sources
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}
