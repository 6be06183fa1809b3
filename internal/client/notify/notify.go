// Package notify shows short-lived status messages to the user.
//
// A message is written to the output as soon as it is raised and stays in
// the active set until its time-to-live elapses. Renderers that redraw the
// screen (the REPL prompt, for one) read Active to show what is still live.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/payscan/payscan/internal/timex"
)

// DefaultTTL is how long a message stays active.
const DefaultTTL = 3500 * time.Millisecond

type Kind int

const (
	Info Kind = iota
	Success
	Error
)

func (k Kind) Icon() string {
	switch k {
	case Success:
		return "✅"
	case Error:
		return "❌"
	default:
		return "ℹ️"
	}
}

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Notification struct {
	ID      uint64
	Kind    Kind
	Message string
}

// String renders the notification the way it is printed.
func (n Notification) String() string {
	return n.Kind.Icon() + " " + n.Message
}

type Notifier struct {
	mu     sync.Mutex
	out    io.Writer
	ttl    time.Duration
	sched  timex.Scheduler
	nextID uint64
	active []Notification
}

type Option func(*Notifier)

// WithScheduler replaces the runtime timer used for auto-dismiss.
func WithScheduler(s timex.Scheduler) Option {
	return func(n *Notifier) { n.sched = s }
}

// New returns a Notifier writing to out. A non-positive ttl selects
// DefaultTTL.
func New(out io.Writer, ttl time.Duration, opts ...Option) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	n := &Notifier{out: out, ttl: ttl, sched: timex.RealScheduler()}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Notify prints msg and keeps it active for the configured TTL.
func (n *Notifier) Notify(kind Kind, msg string) {
	n.mu.Lock()
	n.nextID++
	nt := Notification{ID: n.nextID, Kind: kind, Message: msg}
	n.active = append(n.active, nt)
	if n.out != nil {
		_, _ = fmt.Fprintln(n.out, nt.String())
	}
	n.mu.Unlock()

	n.sched.AfterFunc(n.ttl, func() { n.Dismiss(nt.ID) })
}

func (n *Notifier) Success(msg string) { n.Notify(Success, msg) }
func (n *Notifier) Error(msg string)   { n.Notify(Error, msg) }
func (n *Notifier) Info(msg string)    { n.Notify(Info, msg) }

// Dismiss removes a message before its TTL. It reports whether the message
// was still active.
func (n *Notifier) Dismiss(id uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, nt := range n.active {
		if nt.ID == id {
			n.active = append(n.active[:i], n.active[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the live messages, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.active...)
}
