package slotlist

// link represents a slice-based doubly linked-list node that
// consists of a next and previous SlotIndex.
//
// A slot on the free chain only uses next; its prev is kept at InvalidIndex.
type link struct {
	next SlotIndex
	prev SlotIndex
}

// reset detaches the link from whichever chain it belonged to.
func (l *link) reset() {
	l.next = InvalidIndex
	l.prev = InvalidIndex
}

// chain represents the live doubly linked-list by its head and tail slot indices.
// head and tail are InvalidIndex whenever size is zero.
type chain struct {
	head SlotIndex
	tail SlotIndex
	size uint32
}

func (c *chain) clear() {
	c.head = InvalidIndex
	c.tail = InvalidIndex
	c.size = 0
}

// freeChain represents the singly linked-list of reusable slots. Slots are pushed
// and popped at its head, so the most recently freed slot is reused first.
type freeChain struct {
	head SlotIndex
	size uint32
}
