package notify

import (
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskdash/internal/derived"
	"github.com/nhle/taskdash/internal/model"
)

// Center holds the current notification list. Each Refresh replaces the
// list; entries the user dismissed stay hidden for as long as they keep
// being produced.
type Center struct {
	alerter      Alerter
	alertMinutes int
	logger       *log.Logger

	mu        gosync.Mutex
	current   []model.Notification
	dismissed map[string]bool
	alerted   map[string]bool
}

// NewCenter creates a Center. When alerter is nil no host alerts are sent.
func NewCenter(alerter Alerter, alertMinutes int, logger *log.Logger) *Center {
	return &Center{
		alerter:      alerter,
		alertMinutes: alertMinutes,
		logger:       logger,
		dismissed:    make(map[string]bool),
		alerted:      make(map[string]bool),
	}
}

// Configure replaces the alerter and the minute mark that triggers it.
// A nil alerter turns host alerts off.
func (c *Center) Configure(alerter Alerter, alertMinutes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerter = alerter
	c.alertMinutes = alertMinutes
}

// Refresh recomputes notifications for tasks at now and returns the
// entries that are not dismissed.
func (c *Center) Refresh(tasks []model.Task, now time.Time) []model.Notification {
	return c.Set(derived.DueNotifications(tasks, now))
}

// Set replaces the list with fresh, and returns the entries that are not
// dismissed.
func (c *Center) Set(fresh []model.Notification) []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	present := make(map[string]bool, len(fresh))
	visible := make([]model.Notification, 0, len(fresh))
	for _, n := range fresh {
		present[n.ID] = true
		if c.dismissed[n.ID] {
			continue
		}
		visible = append(visible, n)
		c.maybeAlert(n)
	}

	for id := range c.dismissed {
		if !present[id] {
			delete(c.dismissed, id)
		}
	}
	for id := range c.alerted {
		if !present[id] {
			delete(c.alerted, id)
		}
	}

	c.current = visible
	return c.list()
}

func (c *Center) list() []model.Notification {
	out := make([]model.Notification, len(c.current))
	copy(out, c.current)
	return out
}

// Notifications returns the visible notifications.
func (c *Center) Notifications() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list()
}

// Dismiss hides the notification with the given id. Tasks are not touched.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dismissed[id] = true
	kept := c.current[:0:0]
	for _, n := range c.current {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.current = kept
}

// DismissAll hides every visible notification.
func (c *Center) DismissAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range c.current {
		c.dismissed[n.ID] = true
	}
	c.current = nil
}

// maybeAlert forwards a due-soon notification to the alerter once, when it
// reaches the configured minute mark. Callers hold c.mu.
func (c *Center) maybeAlert(n model.Notification) {
	if c.alerter == nil || n.Overdue || n.MinutesUntilDue != c.alertMinutes {
		return
	}
	if c.alerted[n.ID] {
		return
	}
	c.alerted[n.ID] = true
	if err := c.alerter.Alert(n); err != nil {
		c.logger.Warn("host alert failed", "id", n.ID, "err", err)
	}
}
