package cmd

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh/spinner"

	"posthaste/internal/haste"
	"posthaste/internal/upload"
	"posthaste/pkg/apperr"
)

// spinnerUploader shows a spinner on interactive terminals while a request
// is in flight. Each Upload sends at most one request.
type spinnerUploader struct {
	upload.Uploader
	out io.Writer
}

type uploadOutcome struct {
	doc *haste.Document
	err error
}

func (s *spinnerUploader) Upload(ctx context.Context, text []byte) (*haste.Document, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Whoever claims first sends the request: the spinner action, or the
	// direct fallback when the spinner never got to run it.
	var claimed atomic.Bool
	outcome := make(chan uploadOutcome, 1)

	runErr := spinner.New().
		Title("Uploading...").
		Output(s.out).
		Context(ctx).
		ActionWithErr(func(ctx context.Context) error {
			if !claimed.CompareAndSwap(false, true) {
				return nil
			}
			doc, err := s.Uploader.Upload(ctx, text)
			outcome <- uploadOutcome{doc: doc, err: err}
			return err
		}).
		Run()

	if errors.Is(runErr, tea.ErrInterrupted) {
		return nil, apperr.NewInterrupted(runErr)
	}

	if claimed.CompareAndSwap(false, true) {
		if err := ctx.Err(); err != nil {
			return nil, apperr.NewConnectionError("Error: Upload cancelled", err)
		}
		return s.Uploader.Upload(ctx, text)
	}

	res := <-outcome
	return res.doc, res.err
}
