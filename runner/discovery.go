package runner

import (
	"sync"

	"github.com/james-s-tayler/xunit/types"
)

// discoverySink collects discovered test cases and provides the one-shot
// handshake the pipeline blocks on. A cancellation request makes
// OnDiscovered return false, telling the engine to stop producing.
type discoverySink struct {
	canceller *Canceller

	mu    sync.Mutex
	cases []types.TestCase

	finished chan struct{}
	once     sync.Once
}

func newDiscoverySink(canceller *Canceller) *discoverySink {
	return &discoverySink{
		canceller: canceller,
		finished:  make(chan struct{}),
	}
}

func (d *discoverySink) OnDiscovered(tc types.TestCase) bool {
	d.mu.Lock()
	d.cases = append(d.cases, tc)
	d.mu.Unlock()
	return !d.canceller.Cancelled()
}

func (d *discoverySink) Done() {
	d.once.Do(func() { close(d.finished) })
}

func (d *discoverySink) Finished() <-chan struct{} {
	return d.finished
}

// Cases returns the collected test cases in discovery order.
func (d *discoverySink) Cases() []types.TestCase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]types.TestCase(nil), d.cases...)
}
