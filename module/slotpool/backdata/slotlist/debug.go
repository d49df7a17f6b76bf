package slotlist

// SlotView is a read-only copy of one slot, as exposed for debugging.
type SlotView struct {
	Index SlotIndex
	Live  bool
	Key   int
	Value int
	Next  SlotIndex
	Prev  SlotIndex
}

// DebugView is a read-only copy of the pool internals.
type DebugView struct {
	Capacity uint32
	Size     uint32
	FreeSize uint32
	Head     SlotIndex
	Tail     SlotIndex
	FreeHead SlotIndex
	Slots    []SlotView
}

// Debug returns a copy of the pool internals, in slot order.
func (p *Pool) Debug() DebugView {
	live := make(map[SlotIndex]struct{}, p.used.size)
	slotIndex := p.used.head
	for step := uint32(0); step < p.used.size && p.inRange(slotIndex); step++ {
		live[slotIndex] = struct{}{}
		slotIndex = p.slots[slotIndex].node.next
	}

	view := DebugView{
		Capacity: p.capacity,
		Size:     p.used.size,
		FreeSize: p.free.size,
		Head:     p.used.head,
		Tail:     p.used.tail,
		FreeHead: p.free.head,
		Slots:    make([]SlotView, p.capacity),
	}
	for i := uint32(0); i < p.capacity; i++ {
		s := p.slots[i]
		_, isLive := live[SlotIndex(i)]
		view.Slots[i] = SlotView{
			Index: SlotIndex(i),
			Live:  isLive,
			Key:   s.Key,
			Value: s.Value,
			Next:  s.node.next,
			Prev:  s.node.prev,
		}
	}

	return view
}
