package listview

import (
	"sync"
	"time"
)

// Debouncer commits a search value only after the input has been idle for the
// configured interval, bounding the request rate of fast typing. A burst of
// keystrokes yields exactly one committed value: the last one.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	commit func(string)
}

func NewDebouncer(delay time.Duration, commit func(string)) *Debouncer {
	return &Debouncer{delay: delay, commit: commit}
}

// Type records a keystroke-driven value, restarting the idle timer.
func (d *Debouncer) Type(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.commit(value)
	})
}

// Flush commits immediately, bypassing the idle delay. Used by the explicit
// search action.
func (d *Debouncer) Flush(value string) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.commit(value)
}

// Stop cancels any pending commit.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
