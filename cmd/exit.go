package cmd

import (
	"fmt"
	"io"
	"strings"

	"posthaste/pkg/apperr"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case apperr.IsCategory(err, apperr.Usage):
		return exitUsage
	case apperr.IsCategory(err, apperr.Interrupted):
		return exitInterrupted
	default:
		return exitFailure
	}
}

func reportError(w io.Writer, err error) {
	msg := err.Error()
	if msg == "" {
		return
	}
	if !strings.HasPrefix(msg, "Error") {
		msg = "Error: " + msg
	}

	// Styled one line at a time so lipgloss does not pad short lines.
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		lines[i] = errorStyle.Render(line)
	}
	_, _ = fmt.Fprintln(w, strings.Join(lines, "\n"))
}
