package notify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskdash/internal/model"
)

// Alerter is a host capability for surfacing a notification outside the
// application, such as a terminal bell.
type Alerter interface {
	Alert(n model.Notification) error
}

// BellAlerter rings the terminal bell and logs the notification.
type BellAlerter struct {
	out    io.Writer
	logger *log.Logger
}

// NewBellAlerter returns a BellAlerter writing the bell character to out.
func NewBellAlerter(out io.Writer, logger *log.Logger) *BellAlerter {
	return &BellAlerter{out: out, logger: logger}
}

// Alert implements Alerter.
func (a *BellAlerter) Alert(n model.Notification) error {
	a.logger.Info("due soon", "task", n.TaskID, "message", n.Message)
	if _, err := fmt.Fprint(a.out, "\a"); err != nil {
		return fmt.Errorf("ringing bell: %w", err)
	}
	return nil
}
