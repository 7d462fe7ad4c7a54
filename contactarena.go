package physics

// ContactHandle is a stable reference to a contact. It stays valid only as
// long as the contact it was taken from is alive; a handle to a destroyed
// contact resolves to nil even after its slot is reused.
type ContactHandle struct {
	index      uint32
	generation uint32
}

// IsNil reports whether the handle is the zero handle.
func (h ContactHandle) IsNil() bool {
	return h.generation == 0
}

type contactSlot struct {
	contact    *Contact
	generation uint32
	nextFree   int32
}

// contactArena owns every contact of a world. Released contacts go back to a
// free list and are reused by the next allocation, so a long-running world
// settles into a fixed set of contact objects.
type contactArena struct {
	slots    []contactSlot
	freeList int32
	live     int
}

func newContactArena() *contactArena {
	return &contactArena{freeList: -1}
}

// alloc returns a zeroed contact and its handle.
func (arena *contactArena) alloc() *Contact {
	var index int32
	if arena.freeList >= 0 {
		index = arena.freeList
		arena.freeList = arena.slots[index].nextFree
	} else {
		index = int32(len(arena.slots))
		arena.slots = append(arena.slots, contactSlot{contact: &Contact{}})
	}

	slot := &arena.slots[index]
	slot.generation++
	slot.nextFree = -1

	c := slot.contact
	*c = Contact{}
	c.handle = ContactHandle{index: uint32(index), generation: slot.generation}
	arena.live++
	return c
}

// release returns the contact's slot to the free list. It reports false if
// the contact is not the current occupant of its slot.
func (arena *contactArena) release(c *Contact) bool {
	h := c.handle
	if int(h.index) >= len(arena.slots) {
		return false
	}
	slot := &arena.slots[h.index]
	if slot.generation != h.generation || slot.contact != c {
		return false
	}

	// Bump the generation so outstanding handles go stale.
	slot.generation++
	slot.nextFree = arena.freeList
	arena.freeList = int32(h.index)
	arena.live--
	c.handle = ContactHandle{}
	return true
}

// get resolves a handle, returning nil for stale or zero handles.
func (arena *contactArena) get(h ContactHandle) *Contact {
	if h.IsNil() || int(h.index) >= len(arena.slots) {
		return nil
	}
	slot := &arena.slots[h.index]
	if slot.generation != h.generation {
		return nil
	}
	return slot.contact
}

func (arena *contactArena) Count() int {
	return arena.live
}
