package localevent

import (
	"github.com/joeycumines/logiface"
)

// Event is a notification registry for cooperative waiters on a single
// logical thread of control. Instances must be created via [New].
//
// Thread Safety:
// Event is NOT safe for concurrent use. An Event and every [Listener]
// derived from it must only ever be touched by the one goroutine (or
// cooperative scheduler) that owns them; there is deliberately no internal
// locking to get in the way of that model.
type Event struct {
	log *logiface.Logger[logiface.Event]

	// waiters holds every registered entry, in FIFO registration order.
	waiters arena

	// notified counts live entries currently in stateNotified, i.e.
	// signaled but not yet observed. Invariant: notified <= waiters.live,
	// and the notified entries form a prefix of the FIFO order.
	notified int
}

// New creates an empty Event.
func New(opts ...Option) (*Event, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Event{
		log:     cfg.logger,
		waiters: newArena(cfg.capacity),
	}, nil
}

// Listen registers a new waiter at the tail of the FIFO order and returns
// its [Listener]. The caller must eventually release the Listener, either by
// polling it to completion or via [Listener.Close].
//
// Registration is not retroactive: notifications issued before Listen never
// reach the new waiter.
func (e *Event) Listen() *Listener {
	h := e.waiters.insert()
	e.log.Trace().
		Uint64("handle", uint64(h)).
		Int("waiters", e.waiters.live).
		Log("listener registered")
	return &Listener{event: e, h: h}
}

// Notify signals waiters in registration order until n notifications are
// pending, counting notifications that are already pending but not yet
// observed. It returns the number of waiters newly signaled, which may be
// less than n if fewer unresolved waiters exist, or if notifications are
// already pending. Notify with a non-positive n is a no-op returning 0.
func (e *Event) Notify(n int) int {
	count := n - e.notified
	if count < 0 {
		count = 0
	}
	notified := e.notifyUnresolved(count)
	e.log.Debug().
		Int("requested", n).
		Int("notified", notified).
		Int("pending", e.notified).
		Log("notify")
	return notified
}

// NotifyAdditional signals up to n further waiters in registration order,
// regardless of how many notifications are already pending. It returns the
// number of waiters newly signaled.
func (e *Event) NotifyAdditional(n int) int {
	if n < 0 {
		n = 0
	}
	notified := e.notifyUnresolved(n)
	e.log.Debug().
		Int("requested", n).
		Int("notified", notified).
		Int("pending", e.notified).
		Log("notify additional")
	return notified
}

// NotifyAll signals every currently unresolved waiter and returns the
// number signaled.
func (e *Event) NotifyAll() int {
	return e.Notify(e.waiters.live)
}

// Len returns the number of currently registered waiters.
func (e *Event) Len() int {
	return e.waiters.live
}

// Pending returns the number of signaled but not yet observed
// notifications.
func (e *Event) Pending() int {
	return e.notified
}

// notifyUnresolved transitions up to count unresolved entries to
// stateNotified in FIFO order, invoking each entry's resume callback, if
// any, strictly after the entry's state change is complete. Returns the
// number of entries notified.
//
// Resume callbacks run synchronously and may re-enter the Event (re-poll,
// listen, close, further notifies), so the walk never holds a slot pointer
// across a callback: it captures the successor's handle beforehand and
// revalidates it afterwards, restarting from the head if the callback
// removed that entry. Restarting cannot double-signal anyone, because
// notified entries form a prefix of the FIFO order.
func (e *Event) notifyUnresolved(count int) int {
	var notified int
	idx := e.waiters.firstUnresolved()
	for notified < count && idx != noSlot {
		s := &e.waiters.slots[idx]
		resume := s.resume
		s.resume = nil
		s.state = stateNotified
		e.notified++
		notified++

		nextIdx := s.next
		var next handle
		if nextIdx != noSlot {
			next = e.waiters.handleAt(nextIdx)
		}

		if resume != nil {
			resume()
		}

		switch {
		case nextIdx == noSlot:
			idx = noSlot
		case e.waiters.valid(next):
			idx = e.waiters.firstUnresolvedFrom(nextIdx)
		default:
			idx = e.waiters.firstUnresolved()
		}
	}
	return notified
}

// poll is the engine half of [Listener.Poll]. A pending notification is
// consumed and the entry released; otherwise the entry suspends with
// resume, a later registration superseding any earlier one.
func (e *Event) poll(h handle, resume func()) bool {
	s := e.waiters.entry(h)
	if s.state == stateNotified {
		s.state = stateConsumed
		s.resume = nil
		e.notified--
		e.waiters.remove(h)
		return true
	}
	s.state = stateSuspended
	s.resume = resume
	return false
}

// isNotified reports whether the entry for h is signaled but unobserved.
func (e *Event) isNotified(h handle) bool {
	return e.waiters.entry(h).state == stateNotified
}

// cancel is the engine half of [Listener.Close]. If the entry holds an
// unobserved notification, that notification is forwarded to the next
// unresolved entry in FIFO order, or retracted if there is none; the entry
// is then removed either way.
//
// Forwarding only ever moves forward: notified entries form a prefix of the
// FIFO order, so every entry before the cancelled one already holds its own
// notification. The removal happens before the target's resume callback is
// invoked, so re-entrant calls observe consistent state.
func (e *Event) cancel(h handle) {
	idx := e.waiters.indexOf(h)
	wasNotified := e.waiters.slots[idx].state == stateNotified
	start := e.waiters.slots[idx].next
	e.waiters.remove(h)
	if !wasNotified {
		e.log.Trace().
			Uint64("handle", uint64(h)).
			Log("listener cancelled")
		return
	}

	target := e.waiters.firstUnresolvedFrom(start)
	if target == noSlot {
		e.notified--
		e.log.Debug().
			Uint64("handle", uint64(h)).
			Int("pending", e.notified).
			Log("notification retracted")
		return
	}

	s := &e.waiters.slots[target]
	resume := s.resume
	s.resume = nil
	s.state = stateNotified
	// e.notified is unchanged: the notification moved, it was not consumed.
	e.log.Debug().
		Uint64("handle", uint64(h)).
		Uint64("target", uint64(e.waiters.handleAt(target))).
		Log("notification forwarded")
	if resume != nil {
		resume()
	}
}
