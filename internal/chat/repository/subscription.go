package repository

import (
	"context"
	"sync"

	"pingchat/internal/dbmongo"
)

// Subscription is a standing live query over one conversation path.
// Every change to the underlying message set delivers the full current
// ordered list on Updates; Cancel stops delivery and releases the
// server-side listener. Cancel is safe to call more than once.
type Subscription struct {
	updates chan []*dbmongo.Message
	stop    context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

func NewSubscription(stop context.CancelFunc) *Subscription {
	return &Subscription{
		updates: make(chan []*dbmongo.Message, 8),
		stop:    stop,
		done:    make(chan struct{}),
	}
}

// Updates carries full-snapshot deliveries in arrival order.
func (s *Subscription) Updates() <-chan []*dbmongo.Message {
	return s.updates
}

// Done is closed when the subscription has been cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.stop()
		close(s.done)
	})
}

// deliver hands a snapshot to the consumer. Returns false once the
// subscription is cancelled; no snapshot is enqueued after that point.
func (s *Subscription) deliver(snapshot []*dbmongo.Message) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.updates <- snapshot:
		return true
	case <-s.done:
		return false
	}
}
