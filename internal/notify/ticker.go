// Package notify schedules due-date checks and keeps the in-app
// notification list, including which entries the user dismissed.
package notify

import (
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is how often due notifications are recomputed.
const DefaultInterval = 60 * time.Second

// TickMsg is a tea.Msg delivered on every scheduler tick.
type TickMsg struct {
	Time time.Time
}

// Ticker emits TickMsg on a fixed interval until stopped.
type Ticker struct {
	interval time.Duration
	tickCh   chan TickMsg
	stopCh   chan struct{}
	mu       gosync.Mutex
	running  bool
	stopped  bool
}

// NewTicker creates a Ticker. Non-positive intervals use DefaultInterval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		interval: interval,
		tickCh:   make(chan TickMsg, 1),
		stopCh:   make(chan struct{}),
	}
}

// Interval returns the tick period.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Start launches the ticking goroutine and returns a tea.Cmd that waits for
// the first tick. Calling Start again, or after Stop, returns nil.
func (t *Ticker) Start() tea.Cmd {
	t.mu.Lock()
	if t.running || t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.running = true
	t.mu.Unlock()

	go t.run()

	return t.waitForTick()
}

// Stop halts the ticking goroutine. It is safe to call more than once.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	close(t.stopCh)
	t.stopped = true
	t.running = false
}

// Running reports whether the ticker has been started and not stopped.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// WaitForNext returns a tea.Cmd that waits for the next tick. Call it after
// handling a TickMsg to keep listening.
func (t *Ticker) WaitForNext() tea.Cmd {
	return t.waitForTick()
}

func (t *Ticker) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case now := <-ticker.C:
			t.send(TickMsg{Time: now})
		}
	}
}

// send delivers a tick without blocking; a tick nobody has read yet is
// replaced rather than queued.
func (t *Ticker) send(msg TickMsg) {
	select {
	case t.tickCh <- msg:
	default:
		select {
		case <-t.tickCh:
		default:
		}
		select {
		case t.tickCh <- msg:
		default:
		}
	}
}

func (t *Ticker) waitForTick() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-t.tickCh:
			return msg
		case <-t.stopCh:
			return nil
		}
	}
}
