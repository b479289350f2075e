package island

import (
	"sync"

	"github.com/google/uuid"
)

// Emitter is a component output. Values are delivered synchronously to
// every subscriber in subscription order.
type Emitter struct {
	name string

	mu   sync.Mutex
	subs []*Subscription
}

// Subscription is a registered output callback.
type Subscription struct {
	ID uuid.UUID

	emitter *Emitter
	fn      func(any)
}

// NewEmitter creates an output named name.
func NewEmitter(name string) *Emitter {
	return &Emitter{name: name}
}

// Name returns the output name.
func (e *Emitter) Name() string { return e.name }

// Subscribe registers fn.
func (e *Emitter) Subscribe(fn func(any)) *Subscription {
	s := &Subscription{ID: uuid.New(), emitter: e, fn: fn}
	e.mu.Lock()
	e.subs = append(e.subs, s)
	e.mu.Unlock()
	return s
}

// Emit delivers v to the current subscribers.
func (e *Emitter) Emit(v any) {
	e.mu.Lock()
	subs := make([]*Subscription, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of subscribers.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

func (e *Emitter) remove(s *Subscription) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, cur := range e.subs {
		if cur == s {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Emitter) clear() {
	e.mu.Lock()
	e.subs = nil
	e.mu.Unlock()
}

// Unsubscribe removes the subscription. It reports whether the
// subscription was still active; calling it again is a no-op.
func (s *Subscription) Unsubscribe() bool {
	if s == nil || s.emitter == nil {
		return false
	}
	return s.emitter.remove(s)
}
