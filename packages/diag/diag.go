// Package diag routes pipeline diagnostics: free-form log lines plus response
// artifacts persisted for ad-hoc inspection during a test run.
package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/harnesskit/packages/urlutil"
)

// Sink receives diagnostic output from the execution pipeline. Implementations
// must be safe for concurrent use.
type Sink interface {
	// Logf records one free-form diagnostic line.
	Logf(format string, args ...any)
	// RecordArtifact registers a file written during the run so the harness
	// can attach it to its results.
	RecordArtifact(path string)
}

// ConsoleSink writes diagnostics to a terminal.
type ConsoleSink struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewConsoleSink creates a sink writing to w, or stderr when w is nil.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleSink{writer: w}
}

func (s *ConsoleSink) Logf(format string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "%s %s\n", yellow("diag"), fmt.Sprintf(format, args...))
}

func (s *ConsoleSink) RecordArtifact(path string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "%s %s\n", "artifact", cyan(path))
}

// MemorySink collects diagnostics in memory, for tests and embedding harnesses
// that forward lines to their own reporting.
type MemorySink struct {
	mu        sync.Mutex
	lines     []string
	artifacts []string
}

func (s *MemorySink) Logf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

func (s *MemorySink) RecordArtifact(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, path)
}

// Lines returns a copy of the recorded log lines.
func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Artifacts returns a copy of the recorded artifact paths.
func (s *MemorySink) Artifacts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.artifacts...)
}

// Recorder persists response bodies under one artifact directory and registers
// every written file with a Sink.
type Recorder struct {
	dir  string
	sink Sink
}

// NewRecorder creates a recorder rooted at dir. An empty dir selects a fresh
// per-run directory under the system temp directory.
func NewRecorder(dir string, sink Sink) *Recorder {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "harnesskit-"+uuid.NewString()[:8])
	}
	return &Recorder{dir: dir, sink: sink}
}

// Dir returns the artifact directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// SaveResponse writes body to <dir>/<METHOD>_<sanitized-path>_<status>.json
// and registers the file with the sink. Zero-byte bodies are skipped. Name
// collisions within a run overwrite: artifacts are for inspection, not an
// audit trail.
func (r *Recorder) SaveResponse(method, rawURL string, status int, body []byte) (string, error) {
	if len(body) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%d.json", method, urlutil.SanitizePath(rawURL), status)
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}

	if r.sink != nil {
		r.sink.RecordArtifact(path)
	}
	return path, nil
}
