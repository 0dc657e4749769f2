// Package notify fans out change events to subscribers and turns file
// system changes into those events.
package notify

import (
	"sync"
	"time"
)

// Event describes why subscribers should refresh.
type Event struct {
	Reason string
	At     time.Time
}

// Notifier broadcasts events to all subscribed listeners. Each listener
// holds at most one pending event: a newer event replaces an unread one.
type Notifier struct {
	mu        sync.Mutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it. Unknown channels
// are ignored.
func (n *Notifier) Unsubscribe(sub <-chan Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.listeners {
		if ch == sub {
			delete(n.listeners, ch)
			close(ch)
			return
		}
	}
}

// Broadcast sends ev to all listeners without blocking.
func (n *Notifier) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		// Drop a stale pending event so the newest one wins.
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
