package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"posthaste/internal/haste"
	"posthaste/internal/input"
	"posthaste/pkg/apperr"
)

const stdinName = "stdin"

type Uploader interface {
	Upload(ctx context.Context, text []byte) (*haste.Document, error)
	Endpoint() string
	Headers() http.Header
	ShareURL(key string) string
}

type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
	// SkipMissing skips files that cannot be found or read instead of
	// stopping the run. Empty files still fail.
	SkipMissing bool
}

type Request struct {
	Text   []byte
	Source string
}

type Result struct {
	Source   string
	Key      string
	ShareURL string
}

type Workflow struct {
	uploader    Uploader
	stdout      io.Writer
	stderr      io.Writer
	verbose     bool
	skipMissing bool
}

func NewWorkflow(uploader Uploader, opts Options) *Workflow {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	return &Workflow{
		uploader:    uploader,
		stdout:      stdout,
		stderr:      stderr,
		verbose:     opts.Verbose,
		skipMissing: opts.SkipMissing,
	}
}

// Upload sends one piece of text and prints its share URL. Blank text is
// rejected before any request is made.
func (w *Workflow) Upload(ctx context.Context, req Request) (*Result, error) {
	if len(bytes.TrimSpace(req.Text)) == 0 {
		if req.Source == "" || req.Source == stdinName {
			return nil, apperr.NewNoInput()
		}
		return nil, apperr.NewEmptyInput(req.Source)
	}

	if w.verbose {
		w.printRequest(req.Text)
	}

	slog.Debug("Uploading", "source", req.Source, "bytes", len(req.Text), "endpoint", w.uploader.Endpoint())

	doc, err := w.uploader.Upload(ctx, req.Text)
	if err != nil {
		slog.Debug("Upload failed", "source", req.Source, "error", err)
		return nil, err
	}

	if w.verbose {
		w.printResponse(doc.Body)
	}

	shareURL := w.uploader.ShareURL(doc.Key)
	_, _ = fmt.Fprintln(w.stdout, shareURL)

	return &Result{
		Source:   req.Source,
		Key:      doc.Key,
		ShareURL: shareURL,
	}, nil
}

// Run uploads each source in order and stops at the first failure.
func (w *Workflow) Run(ctx context.Context, sources []input.Source) ([]Result, error) {
	results := make([]Result, 0, len(sources))

	for _, src := range sources {
		text, err := src.Read()
		if err != nil {
			if w.skipMissing && skippable(err) {
				w.warn(fmt.Sprintf("Warning: skipping %s: %v", src.Name(), err))
				continue
			}
			return results, err
		}

		res, err := w.Upload(ctx, Request{Text: text, Source: src.Name()})
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}

	if len(results) == 0 {
		return nil, apperr.NewNoInput()
	}
	return results, nil
}

func skippable(err error) bool {
	category, ok := apperr.CategoryOf(err)
	if !ok {
		return true
	}
	return category == apperr.FileNotFound
}
