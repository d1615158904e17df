package localevent

// Listener is the suspension point for one registered waiter. Instances
// must be created via [Event.Listen], belong to the owning Event's thread
// of control, and must be released exactly once: either by polling to
// completion or via Close.
//
// A Listener resolves with no payload; readiness only means "the event
// fired for you".
type Listener struct {
	event  *Event
	h      handle
	ready  bool
	closed bool
}

// Poll attempts to complete the wait.
//
// If the event has fired for this waiter, Poll consumes the notification,
// releases the waiter's slot, and returns true. Subsequent Polls return
// true without touching the Event, and Close becomes a no-op.
//
// Otherwise Poll records resume, to be invoked synchronously from inside a
// future notify (or forwarding) call, and returns false. Polling again
// before resumption replaces the previously recorded callback: the latest
// registration wins. A nil resume is permitted and records no callback,
// e.g. for purely opportunistic polling.
//
// Poll after Close is a caller bug and panics: the waiter's slot is gone,
// so the poll could never complete.
func (l *Listener) Poll(resume func()) bool {
	if l.ready {
		return true
	}
	if l.closed {
		panic(`localevent: listener: poll after close`)
	}
	if l.event.poll(l.h, resume) {
		l.ready = true
		return true
	}
	return false
}

// Notified reports whether this waiter has been signaled but has not yet
// observed the notification via Poll. It reports false once Poll has
// returned true, and after Close.
func (l *Listener) Notified() bool {
	if l.ready || l.closed {
		return false
	}
	return l.event.isNotified(l.h)
}

// Close cancels the wait and releases the waiter's slot. If the waiter held
// an unobserved notification, the notification is forwarded to the next
// unresolved waiter in registration order, or retracted if there is none —
// a notification is never silently lost to a departing waiter.
//
// Close is idempotent, completes synchronously, and is a no-op after a
// ready Poll.
func (l *Listener) Close() {
	if l.ready || l.closed {
		return
	}
	l.closed = true
	l.event.cancel(l.h)
}
