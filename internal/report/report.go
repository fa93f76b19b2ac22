// Package report carries log lines and progress fractions from a running
// discovery or aggregation out to whatever front end is observing it. The
// core only pushes; it never reads back. Implementations must be safe to
// call from whatever goroutine runs the operation.
package report

import (
	"fmt"
	"io"
	"sync"
)

// Reporter receives ordered log lines and progress fractions in [0,1].
type Reporter interface {
	Logf(format string, args ...any)
	Progress(fraction float64)
}

// Discard drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Logf(string, ...any) {}
func (discard) Progress(float64)    {}

// Stream writes each log line to w, one per line. Progress fractions are
// dropped; a terminal front end has the log lines for feedback.
type Stream struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) Logf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format+"\n", args...)
}

func (s *Stream) Progress(float64) {}

// Recorder buffers everything it receives, preserving order. Front ends
// running the core on a background goroutine drain it from the foreground;
// tests assert against it.
type Recorder struct {
	mu        sync.Mutex
	lines     []string
	fractions []float64
}

func (r *Recorder) Logf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *Recorder) Progress(fraction float64) {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fractions = append(r.fractions, fraction)
}

// Lines returns a copy of the log lines received so far.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Fractions returns a copy of the progress fractions received so far.
func (r *Recorder) Fractions() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.fractions))
	copy(out, r.fractions)
	return out
}
