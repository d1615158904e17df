package localevent

// handle is a stable reference to an arena slot. The low 32 bits are the
// slot index, the high 32 bits are the slot's generation at grant time.
// Generations start at 1, so the zero handle is never valid.
type handle uint64

func makeHandle(idx int32, gen uint32) handle {
	return handle(uint64(gen)<<32 | uint64(uint32(idx)))
}

// index returns the slot index encoded in the handle.
func (h handle) index() int32 { return int32(uint32(h)) }

// generation returns the slot generation encoded in the handle.
func (h handle) generation() uint32 { return uint32(h >> 32) }

// noSlot marks the absence of a neighbor in the intrusive list.
const noSlot = int32(-1)

// slot holds one waiter entry plus the bookkeeping needed for slot reuse.
type slot struct {
	// resume reschedules the suspended waiter; set while stateSuspended.
	resume func()

	// gen disambiguates stale handles held against a recycled slot.
	gen uint32

	// prev/next are intrusive FIFO links, by slot index.
	prev int32
	next int32

	state entryState
	live  bool
}

// arena is a growable slab of waiter entries with O(1) insert, O(1) removal
// by handle, and FIFO traversal via intrusive index links. Vacated slots are
// recycled through a free list, bounding memory to the high-water mark of
// concurrent waiters.
//
// Pointers into slots must never be held across an insert: appending may
// reallocate the backing array.
type arena struct {
	slots []slot
	free  []int32
	head  int32
	tail  int32
	live  int
}

// newArena creates an empty arena, optionally preallocating capacity slots.
func newArena(capacity int) arena {
	a := arena{
		head: noSlot,
		tail: noSlot,
	}
	if capacity > 0 {
		a.slots = make([]slot, 0, capacity)
	}
	return a
}

// insert appends a new stateCreated entry at the tail of the FIFO order.
func (a *arena) insert() handle {
	var idx int32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{gen: 1})
		idx = int32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.live = true
	s.state = stateCreated
	s.resume = nil
	s.prev = a.tail
	s.next = noSlot
	if a.tail != noSlot {
		a.slots[a.tail].next = idx
	} else {
		a.head = idx
	}
	a.tail = idx
	a.live++
	return makeHandle(idx, s.gen)
}

// remove unlinks the entry from the FIFO order, invalidates the handle by
// bumping the slot's generation, recycles the slot, and returns the entry's
// final state.
func (a *arena) remove(h handle) entryState {
	idx := a.indexOf(h)
	s := &a.slots[idx]
	if s.prev != noSlot {
		a.slots[s.prev].next = s.next
	} else {
		a.head = s.next
	}
	if s.next != noSlot {
		a.slots[s.next].prev = s.prev
	} else {
		a.tail = s.prev
	}
	final := s.state
	s.live = false
	s.gen++
	s.resume = nil
	s.prev = noSlot
	s.next = noSlot
	a.free = append(a.free, idx)
	a.live--
	return final
}

// indexOf validates h against the referenced slot's generation and returns
// its index. A mismatch means the slot was recycled while the handle was
// still held, i.e. a Listener outlived its Event or escaped the owning
// thread of control; that is a lifetime-safety bug in the caller.
func (a *arena) indexOf(h handle) int32 {
	idx := h.index()
	if idx < 0 || int(idx) >= len(a.slots) {
		panic(`localevent: arena: handle out of range`)
	}
	if s := &a.slots[idx]; !s.live || s.gen != h.generation() {
		panic(`localevent: arena: stale handle`)
	}
	return idx
}

// entry resolves h to its slot, panicking on a stale handle.
func (a *arena) entry(h handle) *slot {
	return &a.slots[a.indexOf(h)]
}

// handleAt builds the current handle for a live slot index.
func (a *arena) handleAt(idx int32) handle {
	return makeHandle(idx, a.slots[idx].gen)
}

// valid reports whether h still references the slot it was granted for.
func (a *arena) valid(h handle) bool {
	idx := h.index()
	if idx < 0 || int(idx) >= len(a.slots) {
		return false
	}
	s := &a.slots[idx]
	return s.live && s.gen == h.generation()
}

// firstUnresolvedFrom returns the index of the earliest unresolved entry at
// or after idx in FIFO order, or noSlot.
func (a *arena) firstUnresolvedFrom(idx int32) int32 {
	for ; idx != noSlot; idx = a.slots[idx].next {
		if a.slots[idx].state.unresolved() {
			return idx
		}
	}
	return noSlot
}

// firstUnresolved returns the index of the earliest unresolved entry, or
// noSlot. Notified entries form a prefix of the FIFO order, so the walk is
// bounded by the pending notification count.
func (a *arena) firstUnresolved() int32 {
	return a.firstUnresolvedFrom(a.head)
}
