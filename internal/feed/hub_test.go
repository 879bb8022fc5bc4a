package feed

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHub_PublishToFormSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe(1, 4)
	b := hub.Subscribe(1, 4)
	other := hub.Subscribe(2, 4)
	defer a.Close()
	defer b.Close()
	defer other.Close()

	n := hub.Publish(Event{FormID: 1, SubmissionID: "s-1", SubmittedAt: time.Now()})
	assert.Equal(t, 2, n)

	for _, sub := range []*Subscription{a, b} {
		select {
		case e := <-sub.Events():
			assert.Equal(t, "s-1", e.SubmissionID)
		default:
			t.Fatal("expected an event")
		}
	}
	select {
	case <-other.Events():
		t.Fatal("form 2 subscriber must not see form 1 events")
	default:
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(7, 1)
	defer sub.Close()

	assert.Equal(t, 1, hub.Publish(Event{FormID: 7, SubmissionID: "first"}))
	assert.Equal(t, 0, hub.Publish(Event{FormID: 7, SubmissionID: "second"}))

	e := <-sub.Events()
	assert.Equal(t, "first", e.SubmissionID)
}

func TestSubscription_CloseUnregistersAndClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(3, 1)
	require.Equal(t, 1, hub.Subscribers(3))

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.Subscribers(3))
	_, open := <-sub.Events()
	assert.False(t, open)
	assert.Equal(t, 0, hub.Publish(Event{FormID: 3}))
}

func TestHub_NilIsSafe(t *testing.T) {
	var hub *Hub
	assert.Equal(t, 0, hub.Publish(Event{FormID: 1}))
	assert.Equal(t, 0, hub.Subscribers(1))
}

func TestHub_ConcurrentPublishAndClose(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		sub := hub.Subscribe(9, 2)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range sub.Events() {
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(time.Millisecond)
			sub.Close()
		}()
	}
	for i := 0; i < 50; i++ {
		hub.Publish(Event{FormID: 9})
	}

	wg.Wait()
	assert.Equal(t, 0, hub.Subscribers(9))
}
