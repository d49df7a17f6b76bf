package slotlist

import (
	"errors"

	"github.com/onflow/flow-slotpool/model/slot"
	"github.com/onflow/flow-slotpool/module/irrecoverable"
)

// ErrStaleIterator is reported by Iterator.Err when the pool was mutated after the iterator was
// created or last rewound.
var ErrStaleIterator = errors.New("slot pool was modified during iteration")

// Iterator lazily walks the live chain of a Pool from head to tail.
// It reads the pool in place, so it visits exactly the payloads that were live when it was created
// and stops with ErrStaleIterator once the pool is mutated. Rewind restarts it on the current chain.
type Iterator struct {
	pool    *Pool
	version uint64
	cursor  SlotIndex
	visited uint32
	err     error
}

func newIterator(p *Pool) *Iterator {
	it := &Iterator{pool: p}
	it.Rewind()
	return it
}

// Next returns the next payload. The boolean is false once the tail has been visited,
// or when the walk stopped on an error, see Err.
func (it *Iterator) Next() (slot.Payload, bool) {
	if it.err != nil {
		return slot.Payload{}, false
	}
	if it.version != it.pool.version {
		it.err = ErrStaleIterator
		return slot.Payload{}, false
	}
	if it.visited == it.pool.used.size {
		return slot.Payload{}, false
	}
	if !it.pool.inRange(it.cursor) {
		it.err = irrecoverable.NewExceptionf("live chain broken after %d of %d slots: slot index %d out of range", it.visited, it.pool.used.size, it.cursor)
		return slot.Payload{}, false
	}

	current := it.pool.slots[it.cursor]
	it.visited++
	if it.visited == it.pool.used.size && it.cursor != it.pool.used.tail {
		it.err = irrecoverable.NewExceptionf("live chain ends at slot %d after %d slots, but tail is slot %d", it.cursor, it.visited, it.pool.used.tail)
		return slot.Payload{}, false
	}
	it.cursor = current.node.next

	return current.Payload, true
}

// Err returns the error that stopped the walk, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Remaining returns how many payloads are left to visit.
func (it *Iterator) Remaining() int {
	if it.err != nil || it.version != it.pool.version {
		return 0
	}
	return int(it.pool.used.size - it.visited)
}

// Rewind restarts the walk from the current head.
func (it *Iterator) Rewind() {
	it.version = it.pool.version
	it.cursor = it.pool.used.head
	it.visited = 0
	it.err = nil
}
