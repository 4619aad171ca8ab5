package runner

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanceller_TriState(t *testing.T) {
	c := NewCanceller()
	assert.False(t, c.Cancelled())

	assert.True(t, c.Request(), "first request should ask for graceful wind-down")
	assert.True(t, c.Cancelled())

	assert.False(t, c.Request(), "second request should permit termination")
	assert.True(t, c.Cancelled())

	assert.False(t, c.Request(), "terminating is a terminal state")
}

func TestCanceller_NeverCleared(t *testing.T) {
	c := NewCanceller()
	c.Request()
	c.Request()
	c.Request()
	assert.True(t, c.Cancelled())
}

func TestCanceller_UserInterrupted(t *testing.T) {
	c := NewCanceller()
	assert.False(t, c.UserInterrupted())

	c.Request()
	assert.False(t, c.UserInterrupted(), "stop-on-fail cancellation is not a user interrupt")

	c2 := NewCanceller()
	assert.True(t, c2.Interrupt())
	assert.True(t, c2.UserInterrupted())
	assert.True(t, c2.Cancelled())
}

func TestCanceller_ConcurrentRequestsOneGraceful(t *testing.T) {
	c := NewCanceller()

	const callers = 10
	var wg sync.WaitGroup
	graceful := make(chan struct{}, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Request() {
				graceful <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(graceful)

	assert.Len(t, graceful, 1, "exactly one caller should see the graceful wind-down signal")
}
