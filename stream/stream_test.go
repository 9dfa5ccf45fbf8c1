package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// settle lets Start drain subscription changes, which are not ordered
// against publishes.
func settle() {
	time.Sleep(20 * time.Millisecond)
}

func TestStream_PublishJSON(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New()
	go s.Start(ctx)

	first := s.Subscribe()
	second := s.Subscribe()
	settle()

	s.PublishJSON(map[string]string{"type": "airdrop"})

	for _, ch := range []chan []byte{first, second} {
		select {
		case msg := <-ch:
			require.JSONEq(t, `{"type":"airdrop"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatal("no message")
		}
	}

	s.Unsubscribe(second)
	settle()
	s.Publish([]byte("next"))

	select {
	case msg := <-first:
		require.Equal(t, "next", string(msg))
	case <-time.After(time.Second):
		t.Fatal("no message")
	}
	select {
	case <-second:
		t.Fatal("unsubscribed channel received a message")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestStream_SlowSubscriberDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New()
	go s.Start(ctx)

	slow := s.Subscribe()
	fast := s.Subscribe()
	settle()

	for i := 0; i < bufferSize+10; i++ {
		s.Publish([]byte{byte(i)})
		<-fast
	}
	require.Len(t, slow, bufferSize)
}
