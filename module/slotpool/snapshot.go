package slotpool

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/onflow/flow-slotpool/model/slot"
	"github.com/onflow/flow-slotpool/module/irrecoverable"
	"github.com/onflow/flow-slotpool/module/slotpool/backdata/slotlist"
)

const snapshotVersion = 1

// MaxSnapshotPayloads is the largest number of payloads a snapshot can be restored with.
// It matches the largest capacity the configuration accepts.
const MaxSnapshotPayloads = 1 << 20

// snapshot is the encoded form of the live payloads of a pool, oldest first.
type snapshot struct {
	Version  uint8          `cbor:"1,keyasint"`
	Capacity uint32         `cbor:"2,keyasint"`
	Payloads []slot.Payload `cbor:"3,keyasint"`
}

var snapshotEncMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not create snapshot encoding mode: %v", err))
	}
	return mode
}()

var snapshotDecMode = func() cbor.DecMode {
	mode, err := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxSnapshotPayloads,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("could not create snapshot decoding mode: %v", err))
	}
	return mode
}()

// Snapshot encodes the live payloads, in insertion order, as CBOR.
// The encoding is deterministic: equal pools produce equal bytes.
func (b *Backend) Snapshot() ([]byte, error) {
	b.RLock()
	defer b.RUnlock()

	payloads, err := b.pool.All()
	if err != nil {
		return nil, b.exception(fmt.Errorf("could not collect live payloads: %w", err))
	}

	data, err := snapshotEncMode.Marshal(snapshot{
		Version:  snapshotVersion,
		Capacity: b.pool.Capacity(),
		Payloads: payloads,
	})
	if err != nil {
		return nil, fmt.Errorf("could not encode snapshot: %w", err)
	}

	return data, nil
}

// Restore replaces the content of the pool with the payloads of an encoded snapshot, keeping
// their order. The snapshot may come from a pool of a different capacity.
// Expected errors during normal operations:
//   - slotlist.ErrPoolFull if the snapshot holds more payloads than the pool has slots. The pool is left unchanged.
//   - any decoding error if data is not a snapshot.
func (b *Backend) Restore(data []byte) error {
	var s snapshot
	if err := snapshotDecMode.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("could not decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d, expected %d", s.Version, snapshotVersion)
	}

	b.Lock()
	defer b.Unlock()

	capacity := b.pool.Capacity()
	if uint64(len(s.Payloads)) > uint64(capacity) {
		return fmt.Errorf("snapshot holds %d payloads, pool has %d slots: %w", len(s.Payloads), capacity, slotlist.ErrPoolFull)
	}

	b.pool.Reset()
	b.collector.OnReset(capacity)
	for _, payload := range s.Payloads {
		if err := b.pool.Insert(payload); err != nil {
			return b.exception(irrecoverable.NewExceptionf("could not restore payload %v into a reset pool: %w", payload, err))
		}
	}
	size := b.syncSize()
	if size > 0 {
		b.collector.OnInsertSuccess(size)
	}
	b.log.Info().
		Uint32("size", size).
		Uint32("snapshot_capacity", s.Capacity).
		Msg("slot pool restored from snapshot")

	return nil
}
