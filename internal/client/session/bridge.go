package session

import (
	"context"
	"sync"
)

// Snapshot is the observable state published on every session transition.
// Duplicate snapshots are allowed; observers must treat delivery as
// idempotent.
type Snapshot struct {
	Status             Status
	Session            *Session
	Loading            bool
	BiometricAvailable bool
	BiometricEnabled   bool
	RememberMe         bool
	RememberedEmail    string
}

const subscriberBuffer = 16

// Bridge fans session snapshots out to any number of subscribers. Emission
// never blocks: a subscriber that stops draining its channel loses updates
// instead of stalling the manager.
type Bridge struct {
	mu     sync.Mutex
	subs   map[int]chan Snapshot
	next   int
	last   Snapshot
	primed bool
}

func NewBridge() *Bridge {
	return &Bridge{subs: make(map[int]chan Snapshot)}
}

// Subscribe registers a new observer. The current snapshot, if one has been
// published, is delivered immediately. The returned cancel func closes the
// channel and releases the subscription; cancelling ctx does the same.
func (b *Bridge) Subscribe(ctx context.Context) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, subscriberBuffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	if b.primed {
		ch <- b.last
	}
	b.mu.Unlock()

	released := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
			b.mu.Unlock()
			close(released)
		})
	}

	if done := ctx.Done(); done != nil {
		go func() {
			select {
			case <-done:
				cancel()
			case <-released:
			}
		}()
	}
	return ch, cancel
}

// Publish records s as the latest snapshot and offers it to every subscriber,
// dropping it for those whose buffer is full.
func (b *Bridge) Publish(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = s
	b.primed = true
	for _, ch := range b.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
