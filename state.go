package localevent

// entryState represents the lifecycle state of one registered waiter entry.
//
// State Machine:
//
//	stateCreated (0) → stateSuspended (1)   [Poll before any notification]
//	stateCreated (0) → stateNotified (2)    [Notify before the first Poll]
//	stateSuspended (1) → stateNotified (2)  [Notify]
//	stateNotified (2) → stateConsumed (3)   [Poll observes the notification]
//
// Removal (Close) is reachable from every state. There are no backward
// transitions: forwarding after a Close creates a fresh stateNotified
// transition on a later entry, it never rewinds or reuses one.
type entryState uint8

const (
	// stateCreated indicates the entry is registered but has never been polled.
	stateCreated entryState = iota
	// stateSuspended indicates the entry has been polled at least once,
	// is not yet notified, and holds a resume callback.
	stateSuspended
	// stateNotified indicates the entry has been signaled but the
	// notification has not yet been observed by a completing poll.
	stateNotified
	// stateConsumed indicates a completing poll observed the notification;
	// the entry is about to be removed.
	stateConsumed
)

// String returns a human-readable representation of the state.
func (s entryState) String() string {
	switch s {
	case stateCreated:
		return "Created"
	case stateSuspended:
		return "Suspended"
	case stateNotified:
		return "Notified"
	case stateConsumed:
		return "Consumed"
	default:
		return "Unknown"
	}
}

// unresolved returns true if the entry is still awaiting a notification.
func (s entryState) unresolved() bool {
	return s == stateCreated || s == stateSuspended
}
