package sinks

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/james-s-tayler/xunit/types"
)

// Watchdog flags tests that have been running longer than a threshold. A
// ticker goroutine inspects the started-but-unfinished set and injects a
// Diagnostic message into the wrapped chain for each offender. The
// goroutine stops as soon as execution finishes.
type Watchdog struct {
	inner     Sink
	module    string
	threshold time.Duration
	log       *zap.SugaredLogger

	mu      sync.Mutex
	running map[string]time.Time
	flagged map[string]bool

	stop     chan struct{}
	stopOnce sync.Once
	finished chan struct{}
	once     sync.Once
}

// NewWatchdog wraps inner with long-running test detection. The threshold
// must be positive.
func NewWatchdog(inner Sink, module string, threshold time.Duration, log *zap.SugaredLogger) *Watchdog {
	w := &Watchdog{
		inner:     inner,
		module:    module,
		threshold: threshold,
		log:       log,
		running:   make(map[string]time.Time),
		flagged:   make(map[string]bool),
		stop:      make(chan struct{}),
		finished:  make(chan struct{}),
	}
	go w.watch()
	return w
}

func (w *Watchdog) OnMessage(msg types.Message) bool {
	switch m := msg.(type) {
	case types.TestStarting:
		w.mu.Lock()
		w.running[m.Test] = time.Now()
		w.mu.Unlock()
	case types.TestFinished:
		w.mu.Lock()
		delete(w.running, m.Test)
		delete(w.flagged, m.Test)
		w.mu.Unlock()
	}

	cont := w.inner.OnMessage(msg)

	if _, ok := msg.(types.ExecutionFinished); ok {
		w.stopOnce.Do(func() { close(w.stop) })
		<-w.inner.Finished()
		w.once.Do(func() { close(w.finished) })
	}

	return cont
}

// Finished is closed after the wrapped sink has finished and the watcher
// goroutine has been told to stop.
func (w *Watchdog) Finished() <-chan struct{} {
	return w.finished
}

// Halt stops the watcher goroutine, tears down the wrapped sink and closes
// the completion channel.
func (w *Watchdog) Halt() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.inner.Halt()
	w.once.Do(func() { close(w.finished) })
}

func (w *Watchdog) watch() {
	ticker := time.NewTicker(w.threshold)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			for _, name := range w.overdue() {
				w.log.Warnw("Long-running test detected", "module", w.module, "test", name, "threshold", w.threshold)
				w.inner.OnMessage(types.Diagnostic{
					Module: w.module,
					Text:   fmt.Sprintf("test %q has been running for over %s", name, w.threshold),
				})
			}
		}
	}
}

// overdue returns tests past the threshold that have not been flagged yet,
// in name order so repeated runs report deterministically.
func (w *Watchdog) overdue() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var names []string
	for name, started := range w.running {
		if w.flagged[name] || now.Sub(started) < w.threshold {
			continue
		}
		w.flagged[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
