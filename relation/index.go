// Package relation provides the sparse relation index used for a token's
// dependency list and its reverse lock list. The index keeps an ordered
// slice of references alongside a slot map, giving O(1) insert, membership
// and removal. Removal swaps the last element into the vacated slot, so
// insertion order is not preserved.
package relation

// Index is a sparse set over comparable references.
type Index[R comparable] struct {
	items []R
	slots map[R]int
}

// New creates an empty index.
func New[R comparable]() *Index[R] {
	return &Index[R]{slots: make(map[R]int)}
}

// Len returns the number of references held. Safe on a nil index.
func (x *Index[R]) Len() int {
	if x == nil {
		return 0
	}
	return len(x.items)
}

// Contains reports membership. Safe on a nil index.
func (x *Index[R]) Contains(r R) bool {
	if x == nil {
		return false
	}
	_, ok := x.slots[r]
	return ok
}

// Add appends a reference. Returns false if it is already present.
func (x *Index[R]) Add(r R) bool {
	if _, ok := x.slots[r]; ok {
		return false
	}
	x.slots[r] = len(x.items)
	x.items = append(x.items, r)
	return true
}

// Remove deletes a reference by swapping the last element into its slot and
// popping. Returns false if the reference is absent.
func (x *Index[R]) Remove(r R) bool {
	if x == nil {
		return false
	}
	slot, ok := x.slots[r]
	if !ok {
		return false
	}

	last := len(x.items) - 1
	if slot != last {
		moved := x.items[last]
		x.items[slot] = moved
		x.slots[moved] = slot
	}
	x.items = x.items[:last]
	delete(x.slots, r)
	return true
}

// Items returns a copy of the references in slot order. Safe on a nil index.
func (x *Index[R]) Items() []R {
	if x == nil || len(x.items) == 0 {
		return nil
	}
	out := make([]R, len(x.items))
	copy(out, x.items)
	return out
}

// Clone creates a deep copy. Safe on a nil index, which clones to nil.
func (x *Index[R]) Clone() *Index[R] {
	if x == nil {
		return nil
	}
	clone := &Index[R]{
		items: make([]R, len(x.items)),
		slots: make(map[R]int, len(x.slots)),
	}
	copy(clone.items, x.items)
	for k, v := range x.slots {
		clone.slots[k] = v
	}
	return clone
}
