package executor

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter is notified as a single command or a batch runs. The
// default is a no-op; callers that want terminal feedback install
// NewSpinner or their own implementation.
type ProgressReporter interface {
	Start(label string)
	Update(msg string)
	Done()
}

// noopReporter discards everything. Used whenever a caller doesn't pass
// a reporter, and for every action in a batch beyond the first (batch
// execution reports overall progress itself and suppresses per-action
// spinners, per spec.md §4.7).
type noopReporter struct{}

func (noopReporter) Start(string) {}
func (noopReporter) Update(string) {}
func (noopReporter) Done()         {}

// Spinner is a minimal terminal progress indicator over time.Ticker. It
// exists so the executor has a concrete, dependency-free ProgressReporter
// to show by default in a CLI context; it does not replace a caller's
// own reporter.
type Spinner struct {
	mu     sync.Mutex
	label  string
	stop   chan struct{}
	done   chan struct{}
	frames []string
}

// NewSpinner returns a Spinner writing to nothing until Start is called.
func NewSpinner() *Spinner {
	return &Spinner{frames: []string{"|", "/", "-", "\\"}}
}

func (s *Spinner) Start(label string) {
	s.mu.Lock()
	s.label = label
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Printf("\r%s %s", s.frames[i%len(s.frames)], s.label)
				s.mu.Unlock()
				i++
			}
		}
	}()
}

func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.label = msg
	s.mu.Unlock()
}

func (s *Spinner) Done() {
	s.mu.Lock()
	stop := s.stop
	done := s.done
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	fmt.Print("\r\033[K")
}
