package slotpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/onflow/flow-slotpool/model/slot"
	"github.com/onflow/flow-slotpool/module"
	"github.com/onflow/flow-slotpool/module/irrecoverable"
	"github.com/onflow/flow-slotpool/module/slotpool/backdata/slotlist"
)

// Backend wraps a slot pool with a lock guarding the whole pool state, so that it can be shared
// between goroutines. It also reports every operation to a metrics collector and logs it.
//
// Errors returned by the pool are passed through unchanged, so callers branch on them with
// errors.Is(err, slotlist.ErrPoolFull), errors.Is(err, slotlist.ErrPoolEmpty) and slotlist.IsNotFoundError(err).
// Any other error is an irrecoverable exception.
type Backend struct {
	sync.RWMutex
	pool      *slotlist.Pool
	log       zerolog.Logger
	collector module.SlotPoolMetrics

	// size and capacity mirror the pool so that they can be read without taking the lock.
	size     *atomic.Uint32
	capacity *atomic.Uint32
}

// NewBackend creates a backend over a pool of limit slots.
func NewBackend(limit uint32, logger zerolog.Logger, collector module.SlotPoolMetrics) *Backend {
	b := &Backend{
		pool:      slotlist.NewPool(limit),
		log:       logger.With().Str("component", "slotpool").Uint32("capacity", limit).Logger(),
		collector: collector,
		size:      atomic.NewUint32(0),
		capacity:  atomic.NewUint32(limit),
	}
	collector.OnReset(limit)

	return b
}

// Insert appends the payload after the newest live payload.
// Expected errors during normal operations:
//   - slotlist.ErrPoolFull if every slot is live.
func (b *Backend) Insert(payload slot.Payload) error {
	b.Lock()
	defer b.Unlock()

	err := b.pool.Insert(payload)
	if err != nil {
		if errors.Is(err, slotlist.ErrPoolFull) {
			b.collector.OnInsertRejected()
			b.log.Warn().
				Int("key", payload.Key).
				Int("value", payload.Value).
				Msg("payload rejected, slot pool is full")
			return err
		}
		return b.exception(fmt.Errorf("unexpected failure inserting payload: %w", err))
	}

	size := b.syncSize()
	b.collector.OnInsertSuccess(size)
	b.log.Debug().
		Int("key", payload.Key).
		Int("value", payload.Value).
		Uint32("size", size).
		Msg("payload inserted")

	return nil
}

// RemoveHead removes and returns the oldest live payload.
// Expected errors during normal operations:
//   - slotlist.ErrPoolEmpty if no payload is live.
func (b *Backend) RemoveHead() (slot.Payload, error) {
	b.Lock()
	defer b.Unlock()

	payload, err := b.pool.RemoveHead()
	if err != nil {
		return slot.Payload{}, b.rejectedRemoval(err)
	}
	b.removed(payload)

	return payload, nil
}

// RemoveByKey removes and returns the oldest live payload carrying key.
// Expected errors during normal operations:
//   - slotlist.ErrPoolEmpty if no payload is live.
//   - slotlist.NotFoundError if no live payload carries the key.
func (b *Backend) RemoveByKey(key int) (slot.Payload, error) {
	b.Lock()
	defer b.Unlock()

	payload, err := b.pool.RemoveByKey(key)
	if err != nil {
		return slot.Payload{}, b.rejectedRemoval(err)
	}
	b.removed(payload)

	return payload, nil
}

// Traverse returns the live payloads from the oldest to the newest.
// The lazy traversal of the pool cannot outlive the lock, hence the payloads are materialized.
// Expected errors during normal operations:
//   - slotlist.ErrPoolEmpty if no payload is live.
func (b *Backend) Traverse() ([]slot.Payload, error) {
	b.RLock()
	defer b.RUnlock()

	it, err := b.pool.Traverse()
	if err != nil {
		if errors.Is(err, slotlist.ErrPoolEmpty) {
			b.collector.OnTraverseRejectedEmpty()
			return nil, err
		}
		return nil, b.exception(fmt.Errorf("unexpected failure traversing pool: %w", err))
	}

	payloads := make([]slot.Payload, 0, it.Remaining())
	for payload, ok := it.Next(); ok; payload, ok = it.Next() {
		payloads = append(payloads, payload)
	}
	if err := it.Err(); err != nil {
		return nil, b.exception(fmt.Errorf("traversal of the live chain failed: %w", err))
	}
	b.collector.OnTraverse(uint32(len(payloads)))

	return payloads, nil
}

// Reset discards every payload and links all slots back into the free chain.
func (b *Backend) Reset() {
	b.Lock()
	defer b.Unlock()

	b.pool.Reset()
	b.syncSize()
	b.collector.OnReset(b.pool.Capacity())
	b.log.Debug().Msg("slot pool reset")
}

// Run executes the given function with exclusive access to the pool.
// Operations of f are not reported to the collector, except a change of capacity, which is
// reported as a reset.
func (b *Backend) Run(f func(pool *slotlist.Pool) error) error {
	b.Lock()
	defer b.Unlock()

	capacity := b.pool.Capacity()
	err := f(b.pool)
	b.syncSize()
	if b.pool.Capacity() != capacity {
		b.collector.OnReset(b.pool.Capacity())
		b.log.Debug().
			Uint32("capacity", b.pool.Capacity()).
			Msg("slot pool re-initialized")
	}

	return err
}

// Check validates the structural invariants of the pool. Violations are logged and returned
// aggregated in a single error.
func (b *Backend) Check() error {
	b.RLock()
	defer b.RUnlock()

	err := b.pool.CheckInvariants()
	if err != nil {
		b.log.Error().Err(err).Msg("slot pool invariants violated")
		return fmt.Errorf("slot pool is inconsistent: %w", err)
	}

	return nil
}

// Debug returns a copy of the pool internals.
func (b *Backend) Debug() slotlist.DebugView {
	b.RLock()
	defer b.RUnlock()

	return b.pool.Debug()
}

// Size returns the number of live payloads.
func (b *Backend) Size() uint32 {
	return b.size.Load()
}

// Capacity returns the number of slots of the pool.
func (b *Backend) Capacity() uint32 {
	return b.capacity.Load()
}

// State returns the occupancy state of the pool.
func (b *Backend) State() slotlist.PoolState {
	b.RLock()
	defer b.RUnlock()

	return b.pool.State()
}

// rejectedRemoval reports a failed removal and returns the error to hand to the caller.
func (b *Backend) rejectedRemoval(err error) error {
	switch {
	case errors.Is(err, slotlist.ErrPoolEmpty):
		b.collector.OnRemoveRejectedEmpty()
		return err
	case slotlist.IsNotFoundError(err):
		b.collector.OnRemoveKeyNotFound()
		return err
	default:
		return b.exception(fmt.Errorf("unexpected failure removing payload: %w", err))
	}
}

// removed reports a successful removal.
func (b *Backend) removed(payload slot.Payload) {
	size := b.syncSize()
	b.collector.OnRemoveSuccess(size)
	b.log.Debug().
		Int("key", payload.Key).
		Int("value", payload.Value).
		Uint32("size", size).
		Msg("payload removed")
}

// exception logs an unexpected error and makes sure it is typed as an irrecoverable exception.
func (b *Backend) exception(err error) error {
	b.log.Error().Err(err).Msg("slot pool state can no longer be trusted")
	if irrecoverable.IsException(err) {
		return err
	}
	return irrecoverable.NewException(err)
}

// syncSize mirrors the pool size into the lock-free counter. The caller must hold the lock.
func (b *Backend) syncSize() uint32 {
	size := b.pool.Size()
	b.size.Store(size)
	b.capacity.Store(b.pool.Capacity())

	return size
}
