// Package worldstate owns the process-wide "world abnormal" flag: the switch
// that activates antagonist agents. The flag is mutated only from the
// simulation tick (trigger volumes, debug commands routed through the loop),
// so the broadcaster needs no locking.
package worldstate

// Broadcaster holds the current abnormal flag and fans out changes
// synchronously to subscribers, in subscription order.
type Broadcaster struct {
	abnormal bool
	nextID   int
	subs     []subscriber
}

type subscriber struct {
	id int
	fn func(bool)
}

// NewBroadcaster creates a broadcaster with the flag lowered.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Abnormal returns the current flag value.
func (b *Broadcaster) Abnormal() bool {
	return b.abnormal
}

// Set updates the flag. Subscribers are notified synchronously, before Set
// returns, and only when the value actually changes.
func (b *Broadcaster) Set(v bool) {
	if v == b.abnormal {
		return
	}
	b.abnormal = v
	// Copy first: a callback may unsubscribe itself and shift the backing
	// array mid-iteration.
	snapshot := make([]subscriber, len(b.subs))
	copy(snapshot, b.subs)
	for _, s := range snapshot {
		s.fn(v)
	}
}

// Subscribe registers fn for change notifications and returns its
// unsubscribe handle. With forceNotify, fn is immediately called with the
// current value so late joiners do not miss state.
func (b *Broadcaster) Subscribe(fn func(bool), forceNotify bool) (unsubscribe func()) {
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	if forceNotify {
		fn(b.abnormal)
	}

	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}
