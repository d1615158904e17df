package localevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(t *testing.T, opts ...Option) *Event {
	t.Helper()
	event, err := New(opts...)
	require.NoError(t, err)
	return event
}

// TestNotify_FIFODelivery verifies notifications are granted strictly in
// registration order: Notify(k) marks exactly the first k waiters.
func TestNotify_FIFODelivery(t *testing.T) {
	event := newEvent(t)

	const n = 5
	const k = 3
	listeners := make([]*Listener, n)
	for i := range listeners {
		listeners[i] = event.Listen()
	}

	require.Equal(t, k, event.Notify(k))

	for i, l := range listeners {
		assert.Equal(t, i < k, l.Notified(), "listener %d", i)
	}
	assert.Equal(t, k, event.Pending())
	assert.Equal(t, n, event.Len())

	for _, l := range listeners {
		l.Close()
	}
}

// TestNotify_NoOverDelivery verifies over-notifying saturates at the number
// of unresolved waiters and no waiter is ever notified twice.
func TestNotify_NoOverDelivery(t *testing.T) {
	event := newEvent(t)

	l1 := event.Listen()
	l2 := event.Listen()
	defer l1.Close()
	defer l2.Close()

	assert.Equal(t, 2, event.Notify(10))
	assert.Equal(t, 2, event.Pending())

	// Already-pending notifications count towards the target.
	assert.Equal(t, 0, event.Notify(2))
	assert.Equal(t, 2, event.Pending())
}

// TestNotify_TopUpSemantics verifies Notify counts pending notifications
// towards its target, while NotifyAdditional does not.
func TestNotify_TopUpSemantics(t *testing.T) {
	event := newEvent(t)

	listeners := make([]*Listener, 4)
	for i := range listeners {
		listeners[i] = event.Listen()
		defer listeners[i].Close()
	}

	require.Equal(t, 2, event.Notify(2))

	// Notify(2) again: two notifications already pending, nothing to do.
	assert.Equal(t, 0, event.Notify(2))
	assert.True(t, listeners[0].Notified())
	assert.True(t, listeners[1].Notified())
	assert.False(t, listeners[2].Notified())
	assert.False(t, listeners[3].Notified())

	// NotifyAdditional(2) ignores the pending count.
	assert.Equal(t, 2, event.NotifyAdditional(2))
	for i, l := range listeners {
		assert.True(t, l.Notified(), "listener %d", i)
	}
}

func TestNotify_ZeroAndNegative(t *testing.T) {
	event := newEvent(t)

	l := event.Listen()
	defer l.Close()

	assert.Equal(t, 0, event.Notify(0))
	assert.Equal(t, 0, event.Notify(-1))
	assert.Equal(t, 0, event.NotifyAdditional(0))
	assert.Equal(t, 0, event.NotifyAdditional(-1))
	assert.False(t, l.Notified())
	assert.Equal(t, 0, event.Pending())
}

func TestNotifyAll(t *testing.T) {
	event := newEvent(t)

	listeners := make([]*Listener, 3)
	for i := range listeners {
		listeners[i] = event.Listen()
		defer listeners[i].Close()
	}

	assert.Equal(t, 3, event.NotifyAll())
	for i, l := range listeners {
		assert.True(t, l.Notified(), "listener %d", i)
	}

	// Everyone is already notified.
	assert.Equal(t, 0, event.NotifyAll())
}

// TestClose_Forwarding verifies that closing a notified-but-unobserved
// waiter hands its notification to the next unresolved waiter in FIFO
// order.
func TestClose_Forwarding(t *testing.T) {
	event := newEvent(t)

	l1 := event.Listen()
	l2 := event.Listen()
	defer l2.Close()

	require.Equal(t, 1, event.Notify(1))
	require.True(t, l1.Notified())
	require.False(t, l2.Notified())

	l1.Close()

	assert.True(t, l2.Notified())
	assert.Equal(t, 1, event.Pending())
	assert.True(t, l2.Poll(nil))
	assert.Equal(t, 0, event.Pending())
}

// TestClose_ForwardingSkipsNotified verifies forwarding lands on the next
// unresolved waiter, skipping waiters that already hold a notification.
func TestClose_ForwardingSkipsNotified(t *testing.T) {
	event := newEvent(t)

	l1 := event.Listen()
	l2 := event.Listen()
	l3 := event.Listen()
	defer l1.Close()
	defer l3.Close()

	require.Equal(t, 2, event.Notify(2))

	// l2 holds a notification; closing it must forward to l3, not l1.
	l2.Close()

	assert.True(t, l1.Notified())
	assert.True(t, l3.Notified())
	assert.Equal(t, 2, event.Pending())
	assert.Equal(t, 2, event.Len())
}

// TestClose_ForwardingExhaustion verifies a notification with nowhere to go
// is retracted, leaving no stranded state.
func TestClose_ForwardingExhaustion(t *testing.T) {
	event := newEvent(t)

	l1 := event.Listen()
	require.Equal(t, 1, event.Notify(1))

	l1.Close()

	assert.Equal(t, 0, event.Len())
	assert.Equal(t, 0, event.Pending())

	// The registry must remain usable.
	l2 := event.Listen()
	defer l2.Close()
	assert.False(t, l2.Notified())
	assert.Equal(t, 1, event.Notify(1))
	assert.True(t, l2.Notified())
}

// TestClose_UnnotifiedNoForwarding verifies closing a waiter that holds no
// notification forwards nothing.
func TestClose_UnnotifiedNoForwarding(t *testing.T) {
	event := newEvent(t)

	l1 := event.Listen()
	l2 := event.Listen()
	defer l2.Close()

	l1.Close()

	assert.False(t, l2.Notified())
	assert.Equal(t, 0, event.Pending())
	assert.Equal(t, 1, event.Len())
}

// TestEvent_Isolation verifies notifying one Event never affects waiters
// registered on another.
func TestEvent_Isolation(t *testing.T) {
	a := newEvent(t)
	b := newEvent(t)

	la := a.Listen()
	lb := b.Listen()
	defer la.Close()
	defer lb.Close()

	assert.Equal(t, 1, a.Notify(1))
	assert.True(t, la.Notified())
	assert.False(t, lb.Notified())
	assert.Equal(t, 0, b.Pending())
}

// TestScenario_NotifyOneOfTwo is the poll-first variant: notify(1) readies
// only the earliest waiter.
func TestScenario_NotifyOneOfTwo(t *testing.T) {
	event := newEvent(t)

	l1 := event.Listen()
	l2 := event.Listen()
	defer l2.Close()

	require.Equal(t, 1, event.Notify(1))

	assert.True(t, l1.Poll(nil))
	assert.False(t, l2.Poll(nil))
}

// TestScenario_DroppedBeforePolling continues the above: closing the
// notified waiter without polling readies the second, with no further
// Notify call.
func TestScenario_DroppedBeforePolling(t *testing.T) {
	event := newEvent(t)

	l1 := event.Listen()
	l2 := event.Listen()
	defer l2.Close()

	require.Equal(t, 1, event.Notify(1))

	l1.Close()

	assert.True(t, l2.Poll(nil))
}

// TestScenario_NotifyWithoutListeners verifies notifications are not
// buffered: a waiter registered after Notify is not retroactively signaled.
func TestScenario_NotifyWithoutListeners(t *testing.T) {
	event := newEvent(t)

	assert.Equal(t, 0, event.Notify(5))

	l := event.Listen()
	defer l.Close()
	assert.False(t, l.Notified())
	assert.False(t, l.Poll(nil))
}

// TestNotify_SlotReuseAcrossGenerations drives the arena through churn to
// verify recycled slots never alias old waiters.
func TestNotify_SlotReuseAcrossGenerations(t *testing.T) {
	event := newEvent(t)

	for i := 0; i < 100; i++ {
		l1 := event.Listen()
		l2 := event.Listen()
		require.Equal(t, 1, event.Notify(1))
		require.True(t, l1.Notified())
		l1.Close() // forwards to l2
		require.True(t, l2.Poll(nil))
		require.Equal(t, 0, event.Len())
		require.Equal(t, 0, event.Pending())
	}
}

func BenchmarkListenNotifyPoll(b *testing.B) {
	event, err := New(WithCapacity(1))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := event.Listen()
		event.Notify(1)
		if !l.Poll(nil) {
			b.Fatal("expected ready")
		}
	}
}

func BenchmarkForwarding(b *testing.B) {
	event, err := New(WithCapacity(2))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l1 := event.Listen()
		l2 := event.Listen()
		event.Notify(1)
		l1.Close()
		if !l2.Poll(nil) {
			b.Fatal("expected forwarded readiness")
		}
	}
}
