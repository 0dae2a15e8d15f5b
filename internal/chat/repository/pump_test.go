package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pingchat/internal/dbmongo"
)

// stubStream yields a fixed number of events and then reports the
// stream as ended, as a server-side cursor error would.
type stubStream struct {
	events int
	closed bool
}

func (s *stubStream) Next(ctx context.Context) bool {
	if s.events > 0 {
		s.events--
		return true
	}
	return false
}

func (s *stubStream) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

func TestPump_StreamEndCancelsSubscription(t *testing.T) {
	stream := &stubStream{events: 1}
	sub := NewSubscription(func() {})
	snapshots := [][]*dbmongo.Message{
		{{ID: "m1", Text: "first"}},
		{{ID: "m1", Text: "first"}, {ID: "m2", Text: "second"}},
	}
	calls := 0

	done := make(chan struct{})
	go func() {
		defer close(done)
		pump(context.Background(), stream, sub, func(ctx context.Context) ([]*dbmongo.Message, error) {
			snap := snapshots[calls]
			calls++
			return snap, nil
		}, "alice", "bob")
	}()

	require.Equal(t, snapshots[0], <-sub.Updates())
	require.Equal(t, snapshots[1], <-sub.Updates())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump did not exit after the stream ended")
	}

	// A dead stream must not leave consumers waiting on a live handle
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription not cancelled after stream end")
	}
	require.True(t, stream.closed)
}

func TestPump_SnapshotFailureSkipsDelivery(t *testing.T) {
	stream := &stubStream{events: 1}
	sub := NewSubscription(func() {})

	go pump(context.Background(), stream, sub, func(ctx context.Context) ([]*dbmongo.Message, error) {
		return nil, errors.New("query failed")
	}, "alice", "bob")

	select {
	case snap := <-sub.Updates():
		t.Fatalf("unexpected delivery: %v", snap)
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("pump did not terminate the subscription")
	}
}

func TestPump_StopsWhenConsumerCancels(t *testing.T) {
	stream := &stubStream{events: 1000}
	sub := NewSubscription(func() {})

	done := make(chan struct{})
	go func() {
		defer close(done)
		pump(context.Background(), stream, sub, func(ctx context.Context) ([]*dbmongo.Message, error) {
			return []*dbmongo.Message{}, nil
		}, "alice", "bob")
	}()

	<-sub.Updates()
	sub.Cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump did not stop after consumer cancel")
	}
	require.True(t, stream.closed)
}
