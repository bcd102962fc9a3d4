// package testing contains doubles and assertions shared by the SolveX tests.
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

var (
	errWrite = errors.New("write failed")
	errRead  = errors.New("read failed")
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errWrite
}

// CountingWriter forwards to Target until Limit writes have succeeded, then fails.
type CountingWriter struct {
	Target io.Writer
	Limit  int
	Writes int
}

// FailAfter returns a writer that accepts n writes into w.
func FailAfter(n int, w io.Writer) *CountingWriter {
	return &CountingWriter{Target: w, Limit: n}
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	if c.Writes >= c.Limit {
		return 0, errWrite
	}
	c.Writes++
	return c.Target.Write(p)
}

// Transport is an [http.RoundTripper] that records each request and answers with Response or Err.
type Transport struct {
	Response *http.Response
	Err      error

	mu       sync.Mutex
	requests []*http.Request
}

func (tr *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	tr.mu.Lock()
	tr.requests = append(tr.requests, req)
	tr.mu.Unlock()
	if tr.Err != nil {
		return nil, tr.Err
	}
	return tr.Response, nil
}

// Requests returns the requests seen so far.
func (tr *Transport) Requests() []*http.Request {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]*http.Request(nil), tr.requests...)
}

// Client wraps tr in an [http.Client].
func (tr *Transport) Client() *http.Client {
	return &http.Client{Transport: tr}
}

// BrokenBody is a response body whose reads always fail.
type BrokenBody struct{}

func (BrokenBody) Read(p []byte) (int, error) { return 0, errRead }

func (BrokenBody) Close() error { return nil }

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected file %s: %v", path, err)
		return
	}
	if info.IsDir() {
		t.Errorf("expected %s to be a file, found a directory", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
