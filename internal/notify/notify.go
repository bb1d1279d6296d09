// Package notify holds the transient toast notifications the UI shows
// after mutations: auto-dismissed after a fixed delay and manually
// dismissible.
package notify

import (
	"sort"
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

type Notification struct {
	ID        int64
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Event is delivered to subscribers on show and dismiss.
type Event struct {
	Notification Notification
	Dismissed    bool
}

type Notifier struct {
	successTTL time.Duration
	failureTTL time.Duration

	mu     sync.Mutex
	nextID int64
	active map[int64]Notification
	timers map[int64]*time.Timer
	subs   []func(Event)
}

func New(successTTL, failureTTL time.Duration) *Notifier {
	return &Notifier{
		successTTL: successTTL,
		failureTTL: failureTTL,
		active:     make(map[int64]Notification),
		timers:     make(map[int64]*time.Timer),
	}
}

func (n *Notifier) Subscribe(fn func(Event)) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.subs = append(n.subs, fn)
}

func (n *Notifier) Success(message string) int64 {
	return n.push(KindSuccess, message, n.successTTL)
}

// Warn carries the "please log in" style prompts; they dismiss on the
// success schedule, matching the legacy UI.
func (n *Notifier) Warn(message string) int64 {
	return n.push(KindWarning, message, n.successTTL)
}

func (n *Notifier) Error(message string) int64 {
	return n.push(KindError, message, n.failureTTL)
}

func (n *Notifier) push(kind Kind, message string, ttl time.Duration) int64 {
	n.mu.Lock()

	n.nextID++
	id := n.nextID

	notification := Notification{
		ID:        id,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	n.active[id] = notification

	if ttl > 0 {
		n.timers[id] = time.AfterFunc(ttl, func() { n.Dismiss(id) })
	}

	subs := append([]func(Event){}, n.subs...)
	n.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Notification: notification})
	}

	return id
}

// Dismiss is idempotent; it serves both the auto-dismiss timer and the
// manual close control.
func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()

	notification, ok := n.active[id]
	if !ok {
		n.mu.Unlock()
		return
	}

	delete(n.active, id)

	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}

	subs := append([]func(Event){}, n.subs...)
	n.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Notification: notification, Dismissed: true})
	}
}

// Active returns the visible notifications in display order.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, 0, len(n.active))
	for _, notification := range n.active {
		out = append(out, notification)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Close stops all pending auto-dismiss timers.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
}
