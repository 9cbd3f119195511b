// Package queue is the in process broadcast bus between ingestion and the diff consumers
package queue

import (
	"context"
	"sync"

	"diffjar/internal/platform/logger"

	"github.com/google/uuid"
)

// Topic fans every published value out to the subscribers registered at publish time
// publishers never block; each subscription buffers without bound and drains in order
type Topic[T any] struct {
	name string

	mu     sync.RWMutex
	subs   map[string]*Subscription[T]
	closed bool
}

// NewTopic builds an empty topic, name is only used in logs
func NewTopic[T any](name string) *Topic[T] {
	return &Topic[T]{name: name, subs: map[string]*Subscription[T]{}}
}

// Publish hands v to every current subscriber and returns how many got it
// no subscribers or a closed topic drops v
func (t *Topic[T]) Publish(v T) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return 0
	}
	for _, s := range t.subs {
		s.push(v)
	}
	return len(t.subs)
}

// Subscribe registers a subscription that lives until ctx is done or the topic closes
func (t *Topic[T]) Subscribe(ctx context.Context) *Subscription[T] {
	s := newSubscription[T]()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		s.stop()
		return s
	}
	t.subs[s.id] = s
	t.mu.Unlock()

	logger.Named("queue").Debug().Str("topic", t.name).Str("sub_id", s.id).Msg("subscribed")

	go func() {
		select {
		case <-ctx.Done():
			t.remove(s.id)
			s.stop()
			logger.Named("queue").Debug().Str("topic", t.name).Str("sub_id", s.id).Msg("unsubscribed")
		case <-s.done:
		}
	}()
	return s
}

// Subscribers returns the current subscriber count
func (t *Topic[T]) Subscribers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}

// Close stops every subscription and drops later publishes
func (t *Topic[T]) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	subs := t.subs
	t.subs = map[string]*Subscription[T]{}
	t.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

func (t *Topic[T]) remove(id string) {
	t.mu.Lock()
	delete(t.subs, id)
	t.mu.Unlock()
}

// Subscription is one subscriber's ordered mailbox
type Subscription[T any] struct {
	id  string
	out chan T

	mu   sync.Mutex
	buf  []T
	wake chan struct{}

	done chan struct{}
	once sync.Once
}

func newSubscription[T any]() *Subscription[T] {
	s := &Subscription[T]{
		id:   uuid.NewString(),
		out:  make(chan T),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go s.pump()
	return s
}

// ID identifies the subscription in logs
func (s *Subscription[T]) ID() string { return s.id }

// C delivers values in publish order and closes when the subscription ends
// values still buffered at that point are dropped
func (s *Subscription[T]) C() <-chan T { return s.out }

// Pending returns how many values wait in the mailbox
func (s *Subscription[T]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	s.buf = append(s.buf, v)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) stop() { s.once.Do(func() { close(s.done) }) }

func (s *Subscription[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.buf) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		v := s.buf[0]
		var zero T
		s.buf[0] = zero
		s.buf = s.buf[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
