package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const previewLength = 200

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Preview returns the first limit characters of text, followed by "..."
// when anything was cut.
func Preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// MaskToken keeps a short prefix of a credential so users can tell tokens
// apart in verbose output.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****"
}

func (w *Workflow) printRequest(text []byte) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("POST"), w.uploader.Endpoint())
	fmt.Fprintln(&b, labelStyle.Render("Headers:"))
	for _, line := range headerLines(w.uploader.Headers()) {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	fmt.Fprintf(&b, "%s\n", labelStyle.Render(fmt.Sprintf("Payload (%s):", humanize.Bytes(uint64(len(text))))))
	fmt.Fprintln(&b, Preview(string(text), previewLength))

	_, _ = fmt.Fprint(w.stdout, b.String())
}

func (w *Workflow) printResponse(body []byte) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(body), "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(body)
	}

	_, _ = fmt.Fprintln(w.stdout, labelStyle.Render("Response:"))
	_, _ = fmt.Fprintln(w.stdout, pretty.String())
}

func (w *Workflow) warn(msg string) {
	_, _ = fmt.Fprintln(w.stderr, warnStyle.Render(msg))
}

func headerLines(h http.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		value := h.Get(k)
		if k == "Authorization" {
			if token, ok := strings.CutPrefix(value, "Bearer "); ok {
				value = "Bearer " + MaskToken(token)
			}
		}
		lines = append(lines, k+": "+value)
	}
	return lines
}
