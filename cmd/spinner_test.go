package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"posthaste/internal/haste"
	"posthaste/pkg/apperr"
)

type slowServer struct {
	*httptest.Server
	posts    atomic.Int32
	received chan struct{}
}

// newSlowServer answers POST /documents after delay, or earlier when the
// client goes away.
func newSlowServer(t *testing.T, status int, delay time.Duration) *slowServer {
	t.Helper()
	s := &slowServer{received: make(chan struct{}, 1)}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		s.posts.Add(1)
		select {
		case s.received <- struct{}{}:
		default:
		}

		select {
		case <-r.Context().Done():
			return
		case <-time.After(delay):
		}

		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, `{"key":"abc"}`)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestSpinnerUploader(baseURL string) *spinnerUploader {
	return &spinnerUploader{
		Uploader: haste.NewClient(haste.Options{BaseURL: baseURL, Timeout: 5 * time.Second}),
		out:      io.Discard,
	}
}

func TestSpinnerUploaderSendsOneRequest(t *testing.T) {
	server := newSlowServer(t, http.StatusOK, 50*time.Millisecond)

	doc, err := newTestSpinnerUploader(server.URL).Upload(context.Background(), []byte("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.Key != "abc" {
		t.Errorf("Key = %q, want %q", doc.Key, "abc")
	}
	if got := server.posts.Load(); got != 1 {
		t.Errorf("server received %d posts, want 1", got)
	}
}

func TestSpinnerUploaderReturnsUploadError(t *testing.T) {
	server := newSlowServer(t, http.StatusUnauthorized, 0)

	_, err := newTestSpinnerUploader(server.URL).Upload(context.Background(), []byte("hello"))
	if !apperr.IsCategory(err, apperr.Unauthorized) {
		t.Errorf("Upload() error = %v, want unauthorized", err)
	}
	if got := server.posts.Load(); got != 1 {
		t.Errorf("server received %d posts, want 1", got)
	}
}

func TestSpinnerUploaderCancelledMidRequest(t *testing.T) {
	server := newSlowServer(t, http.StatusOK, 3*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-server.received
		cancel()
	}()

	start := time.Now()
	doc, err := newTestSpinnerUploader(server.URL).Upload(ctx, []byte("hello"))

	if err == nil {
		t.Fatalf("Upload() = %+v, want an error", doc)
	}
	if !apperr.IsCategory(err, apperr.ConnectionError) {
		t.Errorf("Upload() error = %v, want connection error", err)
	}
	if got := server.posts.Load(); got != 1 {
		t.Errorf("server received %d posts, want 1", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Upload() took %v after cancel", elapsed)
	}
}

func TestSpinnerUploaderAlreadyCancelled(t *testing.T) {
	server := newSlowServer(t, http.StatusOK, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSpinnerUploader(server.URL).Upload(ctx, []byte("hello"))
	if err == nil {
		t.Fatal("Upload() error = nil, want cancellation")
	}
	if got := server.posts.Load(); got != 0 {
		t.Errorf("server received %d posts, want 0", got)
	}
}
