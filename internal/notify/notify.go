// Package notify keeps transient user-facing notifications.
//
// A notification has a level matching the web app's alert styles and disappears after a fixed lifetime or
// when dismissed. The terminal UI renders [Center.Active]; the CLI prints notifications as they are pushed.
package notify

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/sweetlist/internal/shared"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Level is the severity of a notification.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Danger
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Danger:
		return "danger"
	default:
		return "info"
	}
}

// ParseLevel maps a level name back to its [Level].
func ParseLevel(s string) (Level, error) {
	switch s {
	case "info":
		return Info, nil
	case "success":
		return Success, nil
	case "warning":
		return Warning, nil
	case "danger", "error":
		return Danger, nil
	}
	return Info, fmt.Errorf("%w: unknown level %q", shared.ErrInvalidArgument, s)
}

// Notification is a single message.
type Notification struct {
	ID        string
	Message   string
	Level     Level
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Message)
}

// Expired reports whether n is no longer visible at now.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Sink receives every pushed notification.
type Sink func(Notification)

// Center holds the notifications that have not expired or been dismissed.
//
// Flows push from background commands while the UI reads, so access is serialized.
type Center struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notification
	sinks []Sink
}

// NewCenter creates a Center. A non-positive ttl uses [DefaultTTL].
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of new notifications.
func (c *Center) TTL() time.Duration {
	return c.ttl
}

// Subscribe registers fn to receive pushed notifications.
func (c *Center) Subscribe(fn Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, fn)
}

// Push adds a notification and returns it.
func (c *Center) Push(level Level, message string) Notification {
	c.mu.Lock()
	now := c.now()
	n := Notification{
		ID:        shared.GenerateID(),
		Message:   message,
		Level:     level,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.items = append(c.items, n)
	sinks := slices.Clone(c.sinks)
	c.mu.Unlock()

	for _, sink := range sinks {
		sink(n)
	}
	return n
}

func (c *Center) Info(message string) Notification    { return c.Push(Info, message) }
func (c *Center) Success(message string) Notification { return c.Push(Success, message) }
func (c *Center) Warning(message string) Notification { return c.Push(Warning, message) }
func (c *Center) Danger(message string) Notification  { return c.Push(Danger, message) }

// Dismiss removes the notification with id. It reports whether one was removed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.items, func(n Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

// Active drops expired notifications and returns the rest, oldest first.
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = slices.DeleteFunc(c.items, func(n Notification) bool { return n.Expired(now) })
	return slices.Clone(c.items)
}

// Latest returns the newest notification still visible at now.
func (c *Center) Latest(now time.Time) (Notification, bool) {
	active := c.Active(now)
	if len(active) == 0 {
		return Notification{}, false
	}
	return active[len(active)-1], true
}
