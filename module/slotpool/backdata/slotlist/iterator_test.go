package slotlist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-slotpool/model/slot"
	"github.com/onflow/flow-slotpool/module/irrecoverable"
	"github.com/onflow/flow-slotpool/utils/unittest"
)

// TestIterator_Lazy checks the iterator reads the pool in place, one payload per call.
func TestIterator_Lazy(t *testing.T) {
	pool := NewPool(5)
	payloads := unittest.PayloadListFixture(3)
	for _, p := range payloads {
		require.NoError(t, pool.Insert(p))
	}

	it, err := pool.Traverse()
	require.NoError(t, err)
	require.Equal(t, 3, it.Remaining())

	first, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, payloads[0], first)
	require.Equal(t, 2, it.Remaining())
}

// TestIterator_Rewind checks an exhausted iterator can be restarted and yields the same sequence.
func TestIterator_Rewind(t *testing.T) {
	pool := NewPool(5)
	payloads := unittest.PayloadListFixture(4)
	for _, p := range payloads {
		require.NoError(t, pool.Insert(p))
	}

	it, err := pool.Traverse()
	require.NoError(t, err)

	for round := 0; round < 2; round++ {
		var visited []slot.Payload
		for p, ok := it.Next(); ok; p, ok = it.Next() {
			visited = append(visited, p)
		}
		require.NoError(t, it.Err())
		require.Equal(t, payloads, visited)
		require.Equal(t, 0, it.Remaining())

		it.Rewind()
	}
}

// TestIterator_Stale checks that mutating the pool stops an iterator, and rewinding resumes it on the new chain.
func TestIterator_Stale(t *testing.T) {
	pool := NewPool(5)
	payloads := unittest.PayloadListFixture(3)
	for _, p := range payloads {
		require.NoError(t, pool.Insert(p))
	}

	it, err := pool.Traverse()
	require.NoError(t, err)
	_, ok := it.Next()
	require.True(t, ok)

	_, err = pool.RemoveByKey(payloads[1].Key)
	require.NoError(t, err)

	_, ok = it.Next()
	require.False(t, ok)
	require.ErrorIs(t, it.Err(), ErrStaleIterator)
	require.Equal(t, 0, it.Remaining())

	it.Rewind()
	var visited []slot.Payload
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		visited = append(visited, p)
	}
	require.NoError(t, it.Err())
	require.Equal(t, []slot.Payload{payloads[0], payloads[2]}, visited)
}

// TestIterator_RejectedOperationKeepsIteratorValid checks that a rejected operation is not a mutation.
func TestIterator_RejectedOperationKeepsIteratorValid(t *testing.T) {
	pool := NewPool(2)
	payloads := unittest.PayloadListFixture(2)
	for _, p := range payloads {
		require.NoError(t, pool.Insert(p))
	}

	it, err := pool.Traverse()
	require.NoError(t, err)

	require.ErrorIs(t, pool.Insert(unittest.PayloadFixture()), ErrPoolFull)
	_, err = pool.RemoveByKey(payloads[0].Key + payloads[1].Key)
	require.True(t, IsNotFoundError(err))

	all := make([]slot.Payload, 0, 2)
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		all = append(all, p)
	}
	require.NoError(t, it.Err())
	require.Equal(t, payloads, all)
}

// TestIterator_BrokenChain checks that a live chain terminating early is reported as an exception
// instead of silently truncating the traversal.
func TestIterator_BrokenChain(t *testing.T) {
	pool := NewPool(5)
	payloads := unittest.PayloadListFixture(3)
	for _, p := range payloads {
		require.NoError(t, pool.Insert(p))
	}
	// cut the chain after the second slot.
	pool.slots[1].node.next = InvalidIndex

	it, err := pool.Traverse()
	require.NoError(t, err)

	var visited []slot.Payload
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		visited = append(visited, p)
	}
	require.Equal(t, payloads[:2], visited)
	require.Error(t, it.Err())
	require.True(t, irrecoverable.IsException(it.Err()))

	_, err = pool.All()
	require.True(t, irrecoverable.IsException(err))

	// the scan for a missing key is bounded by the live size, and reports the broken chain.
	_, err = pool.RemoveByKey(payloads[2].Key)
	require.True(t, irrecoverable.IsException(err))
	require.False(t, IsNotFoundError(err))
}
