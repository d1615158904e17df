// Package localevent provides a single-threaded event notification primitive:
// cooperative tasks register interest in an event, suspend, and are woken in
// registration order when a producer signals it.
//
// It is the cooperative-scheduling analogue of a condition variable,
// specialized for the case where the event and all of its waiters live on the
// same logical thread of control. Because of that assumption there are no
// locks, no atomics, and no channels anywhere in the hot path; every
// operation is a plain, deterministic function call.
//
// # Architecture
//
// An [Event] owns a registry of waiter entries held in a growable slab
// (arena). Entries are addressed by a stable integer handle plus a
// generation counter, and are threaded onto an intrusive, index-linked
// doubly linked list that preserves FIFO registration order. Slots vacated
// by departed waiters are recycled through a free list, bounding memory to
// the high-water mark of concurrent waiters.
//
// [Event.Listen] registers a waiter and returns a [Listener], the suspension
// point. [Listener.Poll] either observes a pending notification (ready) or
// records a resume callback to be invoked by a future notification
// (pending). [Event.Notify], [Event.NotifyAdditional], and [Event.NotifyAll]
// signal waiters strictly in registration order.
//
// # Notification Forwarding
//
// The engine guarantees that a notification is never silently lost. If a
// waiter is notified but its [Listener] is closed before the notification is
// observed, the notification is forwarded to the next unresolved waiter in
// FIFO order; if there is none, it is retracted. A notification is therefore
// always either delivered to a live waiter or retracted, never stranded and
// never duplicated.
//
// # Execution Model
//
// Everything is strictly single-threaded and cooperative. An Event and all
// of its Listeners must only ever be touched by the one logical thread that
// owns them; sharing across goroutines is invalid use. Resume callbacks are
// invoked synchronously, from inside the notifying call, after the target
// entry's state has been fully updated, so a callback that immediately
// re-polls its Listener observes consistent state.
//
// Timeouts are composed externally: race the Listener's completion against a
// timer, and call [Listener.Close] if the timer fires first. Close runs the
// forwarding protocol, so a timed-out waiter never swallows a notification.
//
// # Usage
//
//	event, err := localevent.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	l := event.Listen()
//	defer l.Close()
//
//	if !l.Poll(func() { scheduler.Wake(task) }) {
//	    // suspended; the callback will run inside a future Notify call
//	}
//
//	event.Notify(1) // wakes the earliest unresolved waiter
//
// # Errors
//
// There are no fallible operations in normal use. The one programming-error
// class, using a Listener whose arena slot has been recycled (a Listener
// outliving its Event, or use across goroutines), indicates a
// lifetime-safety bug in the caller and panics rather than returning an
// error.
package localevent
