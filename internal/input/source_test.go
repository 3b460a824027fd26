package input

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"posthaste/pkg/apperr"
)

func TestFileSourceRead(t *testing.T) {
	tmp := t.TempDir()

	full := filepath.Join(tmp, "notes.txt")
	_ = os.WriteFile(full, []byte("Temporary file test!"), 0644)

	empty := filepath.Join(tmp, "empty.txt")
	_ = os.WriteFile(empty, nil, 0644)

	blank := filepath.Join(tmp, "blank.txt")
	_ = os.WriteFile(blank, []byte("  \n\t\n"), 0644)

	tests := []struct {
		name         string
		path         string
		want         string
		wantCategory apperr.Category
	}{
		{
			name: "regularFile",
			path: full,
			want: "Temporary file test!",
		},
		{
			name:         "missingFile",
			path:         filepath.Join(tmp, "nonexistentfile.txt"),
			wantCategory: apperr.FileNotFound,
		},
		{
			name:         "directory",
			path:         tmp,
			wantCategory: apperr.FileNotFound,
		},
		{
			name:         "emptyFile",
			path:         empty,
			wantCategory: apperr.EmptyInput,
		},
		{
			name:         "whitespaceOnly",
			path:         blank,
			wantCategory: apperr.EmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFileSource(tt.path).Read()

			if tt.wantCategory != "" {
				if !apperr.IsCategory(err, tt.wantCategory) {
					t.Errorf("Read() error = %v, want category %q", err, tt.wantCategory)
				}
				return
			}

			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Read() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmptyFileMessageMentionsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	_ = os.WriteFile(path, nil, 0644)

	_, err := NewFileSource(path).Read()
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("Read() error = %v, want message containing empty", err)
	}
}

func TestStdinSourceRead(t *testing.T) {
	got, err := NewStdinSource(strings.NewReader("Hello from test!")).Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(got) != "Hello from test!" {
		t.Errorf("Read() = %q", got)
	}

	_, err = NewStdinSource(bytes.NewReader(nil)).Read()
	if !apperr.IsCategory(err, apperr.NoInput) {
		t.Errorf("Read() error = %v, want no input", err)
	}
	if err == nil || !strings.Contains(err.Error(), "No input provided.") {
		t.Errorf("Read() error = %v, want No input provided.", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestStdinSourceReadFailure(t *testing.T) {
	_, err := NewStdinSource(failingReader{}).Read()
	if err == nil {
		t.Fatal("Read() error = nil, want failure")
	}
	if _, ok := apperr.CategoryOf(err); ok {
		t.Errorf("Read() error = %v, want an uncategorized read error", err)
	}
	if want := "failed to read standard input: broken pipe"; err.Error() != want {
		t.Errorf("Read() error = %q, want %q", err.Error(), want)
	}
}

func TestFromArgs(t *testing.T) {
	sources := FromArgs(nil, strings.NewReader("x"))
	if len(sources) != 1 || sources[0].Name() != "stdin" {
		t.Errorf("FromArgs(nil) = %v, want one stdin source", sources)
	}

	sources = FromArgs([]string{"a.txt", "b.txt"}, nil)
	if len(sources) != 2 {
		t.Fatalf("FromArgs() returned %d sources, want 2", len(sources))
	}
	if sources[1].Name() != "b.txt" {
		t.Errorf("sources[1].Name() = %q, want b.txt", sources[1].Name())
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandHome("~/notes.txt"); got != filepath.Join(home, "notes.txt") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/notes.txt"); got != "/abs/notes.txt" {
		t.Errorf("ExpandHome() = %q, want unchanged", got)
	}
	if got := ExpandHome("~other/notes.txt"); got != "~other/notes.txt" {
		t.Errorf("ExpandHome() = %q, want unchanged", got)
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(strings.NewReader("")) {
		t.Error("IsTerminal(strings.Reader) = true, want false")
	}

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	if IsTerminal(f) {
		t.Error("IsTerminal(regular file) = true, want false")
	}
}
