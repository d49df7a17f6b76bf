package slotlist

import (
	"fmt"
	"math"

	"github.com/onflow/flow-slotpool/model/slot"
	"github.com/onflow/flow-slotpool/module/irrecoverable"
)

// SlotIndex is data type representing a slot index in Pool.
type SlotIndex uint32

// InvalidIndex is used when a link doesn't point anywhere, in other words it is an equivalent of a nil address.
const InvalidIndex SlotIndex = math.MaxUint32

// PoolState is the occupancy state of a pool.
type PoolState string

const (
	StateEmpty   = PoolState("empty")
	StatePartial = PoolState("partial")
	StateFull    = PoolState("full")
)

// poolSlot is one fixed storage unit of the pool.
type poolSlot struct {
	slot.Payload

	// node keeps the links of the slot.
	// When the slot is live, node connects it to the previous and next live slots.
	// When the slot is free, node.next connects it to the next free slot and node.prev is unused.
	node link
}

// Pool is a fixed-capacity doubly linked-list of payloads laid over a slice of slots.
// Freed slots are recycled through an intrusive free chain, hence the pool never allocates
// after construction.
//
// Pool is not concurrency safe; see slotpool.Backend for a locked wrapper.
type Pool struct {
	slots    []poolSlot
	capacity uint32
	used     chain
	free     freeChain
	// version is bumped on every mutation, it lets iterators detect that the chain moved under them.
	version uint64
}

// NewPool allocates limit slots and initializes all of them as free.
func NewPool(limit uint32) *Pool {
	p := &Pool{
		slots: make([]poolSlot, limit),
	}
	p.Initialize(limit)

	return p
}

// Initialize discards all payloads and links the first capacity slots into a single free chain
// in slice order. Calling it again resets the pool.
// Capacity beyond the allocated slots is a programming error and panics.
func (p *Pool) Initialize(capacity uint32) {
	if uint64(capacity) > uint64(len(p.slots)) {
		panic(fmt.Sprintf("capacity %d exceeds the %d allocated slots", capacity, len(p.slots)))
	}

	for i := range p.slots {
		p.slots[i].Payload = slot.Payload{}
		p.slots[i].node.reset()
	}

	p.capacity = capacity
	p.used.clear()
	p.free.head = InvalidIndex
	p.free.size = 0
	// pushing in reverse leaves slot 0 at the free head, and slot i pointing at slot i+1.
	for i := capacity; i > 0; i-- {
		p.pushFree(SlotIndex(i - 1))
	}
	p.version++
}

// Reset re-initializes the pool with its current capacity.
func (p *Pool) Reset() {
	p.Initialize(p.capacity)
}

// Insert writes the payload into a free slot and appends it after the current tail.
// Expected errors during normal operations:
//   - ErrPoolFull if every slot is live.
func (p *Pool) Insert(payload slot.Payload) error {
	if p.used.size == p.capacity {
		return ErrPoolFull
	}

	slotIndex := p.popFree()
	p.slots[slotIndex].Payload = payload
	p.appendUsed(slotIndex)
	p.version++

	return nil
}

// RemoveHead removes the oldest live payload and returns it.
// Expected errors during normal operations:
//   - ErrPoolEmpty if no payload is live.
func (p *Pool) RemoveHead() (slot.Payload, error) {
	if p.used.size == 0 {
		return slot.Payload{}, ErrPoolEmpty
	}

	return p.invalidate(p.used.head), nil
}

// RemoveTail removes the newest live payload and returns it.
// Expected errors during normal operations:
//   - ErrPoolEmpty if no payload is live.
func (p *Pool) RemoveTail() (slot.Payload, error) {
	if p.used.size == 0 {
		return slot.Payload{}, ErrPoolEmpty
	}

	return p.invalidate(p.used.tail), nil
}

// RemoveByKey removes the first live payload, counting from the head, that carries the key.
// Expected errors during normal operations:
//   - ErrPoolEmpty if no payload is live.
//   - NotFoundError if no live payload carries the key.
//
// Any other error is an irrecoverable exception reporting a corrupted live chain.
func (p *Pool) RemoveByKey(key int) (slot.Payload, error) {
	if p.used.size == 0 {
		return slot.Payload{}, ErrPoolEmpty
	}

	slotIndex, err := p.find(key)
	if err != nil {
		return slot.Payload{}, err
	}

	return p.invalidate(slotIndex), nil
}

// Traverse returns an iterator over the live payloads from head to tail.
// Expected errors during normal operations:
//   - ErrPoolEmpty if no payload is live.
func (p *Pool) Traverse() (*Iterator, error) {
	if p.used.size == 0 {
		return nil, ErrPoolEmpty
	}

	return newIterator(p), nil
}

// All returns all live payloads in insertion order. It returns an empty slice for an empty pool.
// An error is an irrecoverable exception reporting a corrupted live chain.
func (p *Pool) All() ([]slot.Payload, error) {
	all := make([]slot.Payload, 0, p.used.size)
	it := newIterator(p)
	for payload, ok := it.Next(); ok; payload, ok = it.Next() {
		all = append(all, payload)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	return all, nil
}

// Head returns the oldest live payload.
func (p *Pool) Head() (slot.Payload, bool) {
	if p.used.size == 0 {
		return slot.Payload{}, false
	}
	return p.slots[p.used.head].Payload, true
}

// Tail returns the newest live payload.
func (p *Pool) Tail() (slot.Payload, bool) {
	if p.used.size == 0 {
		return slot.Payload{}, false
	}
	return p.slots[p.used.tail].Payload, true
}

// Size returns total number of live payloads.
func (p *Pool) Size() uint32 {
	return p.used.size
}

// Capacity returns the number of slots the pool cycles through.
func (p *Pool) Capacity() uint32 {
	return p.capacity
}

// State returns the occupancy state. A zero capacity pool reports StateEmpty.
func (p *Pool) State() PoolState {
	switch {
	case p.used.size == 0:
		return StateEmpty
	case p.used.size == p.capacity:
		return StateFull
	default:
		return StatePartial
	}
}

// find walks at most size live slots from the head and returns the first one carrying key.
// The walk never trusts the terminating link alone.
func (p *Pool) find(key int) (SlotIndex, error) {
	slotIndex := p.used.head
	for step := uint32(0); step < p.used.size; step++ {
		if !p.inRange(slotIndex) {
			return InvalidIndex, irrecoverable.NewExceptionf("live chain broken at step %d of %d: slot index %d out of range", step, p.used.size, slotIndex)
		}
		if p.slots[slotIndex].Key == key {
			return slotIndex, nil
		}
		slotIndex = p.slots[slotIndex].node.next
	}

	return InvalidIndex, NewNotFoundError(key)
}

// invalidate unlinks a live slot, returns it to the free chain, and returns the payload it held.
func (p *Pool) invalidate(slotIndex SlotIndex) slot.Payload {
	payload := p.slots[slotIndex].Payload
	p.unlinkUsed(slotIndex)
	p.pushFree(slotIndex)
	p.version++

	return payload
}

// inRange returns true if slotIndex addresses one of the slots the pool cycles through.
func (p *Pool) inRange(slotIndex SlotIndex) bool {
	return slotIndex != InvalidIndex && uint32(slotIndex) < p.capacity
}

// connect links the prev and next slots as the adjacent nodes in the live chain.
func (p *Pool) connect(prev SlotIndex, next SlotIndex) {
	p.slots[prev].node.next = next
	p.slots[next].node.prev = prev
}

// appendUsed appends a slot to the tail of the live chain or makes it the first element.
// NOTE: the slot must not be in any chain before this method is applied.
func (p *Pool) appendUsed(slotIndex SlotIndex) {
	if p.used.size == 0 {
		p.used.head = slotIndex
		p.used.tail = slotIndex
		p.slots[slotIndex].node.reset()
		p.used.size = 1
		return
	}

	p.connect(p.used.tail, slotIndex)
	p.used.tail = slotIndex
	p.slots[slotIndex].node.next = InvalidIndex
	p.used.size++
}

// unlinkUsed detaches a slot from the live chain, connecting its neighbours to each other,
// and clears both of its links.
// NOTE: the detached slot has to be pushed onto the free chain.
func (p *Pool) unlinkUsed(slotIndex SlotIndex) {
	if p.used.size == 1 {
		p.used.clear()
		p.slots[slotIndex].node.reset()
		return
	}

	node := p.slots[slotIndex].node

	if slotIndex != p.used.head && slotIndex != p.used.tail {
		// links next and prev elements for non-head and non-tail element
		p.connect(node.prev, node.next)
	}

	if slotIndex == p.used.head {
		// moves head forward
		p.used.head = node.next
		p.slots[p.used.head].node.prev = InvalidIndex
	}

	if slotIndex == p.used.tail {
		// moves tail backwards
		p.used.tail = node.prev
		p.slots[p.used.tail].node.next = InvalidIndex
	}

	p.used.size--
	p.slots[slotIndex].node.reset()
}

// pushFree splices a detached slot onto the front of the free chain and wipes its payload.
func (p *Pool) pushFree(slotIndex SlotIndex) {
	p.slots[slotIndex].Payload = slot.Payload{}
	p.slots[slotIndex].node.prev = InvalidIndex
	p.slots[slotIndex].node.next = p.free.head
	p.free.head = slotIndex
	p.free.size++
}

// popFree claims the head of the free chain. The free chain must not be empty.
func (p *Pool) popFree() SlotIndex {
	slotIndex := p.free.head
	p.free.head = p.slots[slotIndex].node.next
	p.free.size--
	p.slots[slotIndex].node.reset()

	return slotIndex
}
