package sprig

// Handle is a stable generational reference to an element. The zero Handle
// refers to nothing. A handle whose element was disposed no longer resolves,
// even if its slot has been reused.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h refers to nothing.
func (h Handle) IsZero() bool { return h.gen == 0 }

type arenaSlot struct {
	gen  uint32
	elem *Element
}

// arena owns every live element of a Context. Masters reference children and
// children reference masters through handles resolved here.
type arena struct {
	slots []arenaSlot
	free  []uint32
	live  int
}

func (a *arena) insert(e *Element) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, arenaSlot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.gen++
	s.elem = e
	a.live++
	return Handle{index: idx, gen: s.gen}
}

// get resolves h, returning nil for the zero handle or a stale handle.
func (a *arena) get(h Handle) *Element {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.elem
}

func (a *arena) remove(h Handle) {
	if a.get(h) == nil {
		return
	}
	s := &a.slots[h.index]
	s.elem = nil
	s.gen++
	a.free = append(a.free, h.index)
	a.live--
}

func (a *arena) len() int { return a.live }
