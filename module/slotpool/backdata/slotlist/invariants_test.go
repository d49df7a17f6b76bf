package slotlist

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-slotpool/utils/unittest"
)

// TestCheckInvariants_Healthy checks a consistent pool passes the invariant check in every state.
func TestCheckInvariants_Healthy(t *testing.T) {
	pool := NewPool(6)
	require.NoError(t, pool.CheckInvariants())

	payloads := unittest.PayloadListFixture(6)
	for _, p := range payloads {
		require.NoError(t, pool.Insert(p))
		require.NoError(t, pool.CheckInvariants())
	}

	_, err := pool.RemoveByKey(payloads[3].Key)
	require.NoError(t, err)
	require.NoError(t, pool.CheckInvariants())

	_, err = pool.RemoveHead()
	require.NoError(t, err)
	require.NoError(t, pool.CheckInvariants())

	require.NoError(t, pool.Insert(unittest.PayloadFixture()))
	require.NoError(t, pool.CheckInvariants())
}

// TestCheckInvariants_Violations corrupts the pool internals and checks every corruption is reported.
func TestCheckInvariants_Violations(t *testing.T) {
	for _, tc := range []struct {
		name    string
		corrupt func(*Pool)
	}{
		{
			name:    "broken live link",
			corrupt: func(p *Pool) { p.slots[1].node.next = InvalidIndex },
		},
		{
			name:    "broken back link",
			corrupt: func(p *Pool) { p.slots[2].node.prev = 0 },
		},
		{
			name:    "tail mismatch",
			corrupt: func(p *Pool) { p.used.tail = 1 },
		},
		{
			name:    "head points back",
			corrupt: func(p *Pool) { p.slots[p.used.head].node.prev = 2 },
		},
		{
			name:    "slot on both chains",
			corrupt: func(p *Pool) { p.slots[p.free.head].node.next = 0 },
		},
		{
			name:    "free slot points back",
			corrupt: func(p *Pool) { p.slots[p.free.head].node.prev = 1 },
		},
		{
			name:    "size mismatch",
			corrupt: func(p *Pool) { p.free.size++ },
		},
		{
			name:    "head out of range",
			corrupt: func(p *Pool) { p.used.head = 42 },
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pool := NewPool(6)
			for _, p := range unittest.PayloadListFixture(3) {
				require.NoError(t, pool.Insert(p))
			}
			require.NoError(t, pool.CheckInvariants())

			tc.corrupt(pool)

			err := pool.CheckInvariants()
			require.Error(t, err)
			var merr *multierror.Error
			require.True(t, errors.As(err, &merr))
			require.NotEmpty(t, merr.Errors)
		})
	}
}
