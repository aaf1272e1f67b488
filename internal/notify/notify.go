package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Notification is a request to remind the user of an upcoming slot.
type Notification struct {
	ID           string    `json:"id"`
	Slot         int       `json:"slot"`
	SlotName     string    `json:"slot_name"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Location     string    `json:"location,omitempty"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
}

// Transport delivers notifications.
type Transport interface {
	Notify(ctx context.Context, n Notification) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, n Notification) error

// Notify calls f.
func (f TransportFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Multi fans a notification out to every transport. A failing transport
// does not stop the others; their errors are joined.
type Multi []Transport

// Notify delivers n to all transports.
func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, t := range m {
		if t == nil {
			continue
		}
		if err := t.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Console logs notifications and optionally rings the terminal bell.
type Console struct {
	Logger *log.Logger
	Bell   bool
	// TTY is the device the bell is written to. Defaults to /dev/tty.
	TTY string
}

// Notify logs n and rings the bell if enabled.
func (c *Console) Notify(_ context.Context, n Notification) error {
	if c.Logger != nil {
		c.Logger.Info(n.Title, "body", n.Body, "at", n.ScheduledFor.Format("15:04"))
	}
	if c.Bell {
		c.ring()
	}
	return nil
}

// ring writes BEL to the terminal directly so it is heard even while the
// screen is being redrawn.
func (c *Console) ring() {
	path := c.TTY
	if path == "" {
		path = "/dev/tty"
	}
	tty, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		os.Stderr.WriteString("\a")
		return
	}
	defer tty.Close()
	tty.WriteString("\a")
}

// HookName is the script looked up in a Hook's directory.
const HookName = "notification"

// Hook runs <Dir>/notification with the notification in its environment.
// A missing script is not an error.
type Hook struct {
	Dir     string
	Timeout time.Duration
}

// Notify runs the hook script and waits for it, up to Timeout.
func (h *Hook) Notify(ctx context.Context, n Notification) error {
	if h.Dir == "" {
		return nil
	}
	path := filepath.Join(h.Dir, HookName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path)
	cmd.Env = append(os.Environ(),
		"VAKTIJA_ID="+n.ID,
		"VAKTIJA_SLOT="+strconv.Itoa(n.Slot),
		"VAKTIJA_SLOT_NAME="+n.SlotName,
		"VAKTIJA_SCHEDULED_FOR="+n.ScheduledFor.Format(time.RFC3339),
		"VAKTIJA_LOCATION="+n.Location,
		"VAKTIJA_TITLE="+n.Title,
		"VAKTIJA_BODY="+n.Body,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notification hook %s failed: %w: %s", path, err, out)
	}
	return nil
}
