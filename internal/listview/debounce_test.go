package listview

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commitLog struct {
	mu     sync.Mutex
	values []string
}

func (c *commitLog) commit(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
}

func (c *commitLog) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.values...)
}

func TestBurstCommitsOnlyLastValue(t *testing.T) {
	log := &commitLog{}
	d := NewDebouncer(30*time.Millisecond, log.commit)
	defer d.Stop()

	d.Type("s")
	d.Type("sm")
	d.Type("smi")
	d.Type("smith")

	require.Eventually(t, func() bool {
		return len(log.snapshot()) > 0
	}, time.Second, 5*time.Millisecond)

	// The burst settles to exactly one commit, the last value typed.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"smith"}, log.snapshot())
}

func TestFlushCommitsImmediately(t *testing.T) {
	log := &commitLog{}
	d := NewDebouncer(time.Hour, log.commit)
	defer d.Stop()

	d.Type("pending")
	d.Flush("now")

	assert.Equal(t, []string{"now"}, log.snapshot())
}

func TestStopCancelsPendingCommit(t *testing.T) {
	log := &commitLog{}
	d := NewDebouncer(20*time.Millisecond, log.commit)

	d.Type("never")
	d.Stop()
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, log.snapshot())
}
