package module

// SlotPoolMetrics tracks the occupancy of a fixed-capacity slot pool and the outcome of its operations.
type SlotPoolMetrics interface {
	// OnInsertSuccess is called whenever a payload is appended to the pool.
	// size is the number of live payloads after the insertion.
	OnInsertSuccess(size uint32)

	// OnInsertRejected is called whenever an insertion is rejected because every slot of the pool is live.
	OnInsertRejected()

	// OnRemoveSuccess is called whenever a payload is removed from the pool, either from its head or by key.
	// size is the number of live payloads after the removal.
	OnRemoveSuccess(size uint32)

	// OnRemoveRejectedEmpty is called whenever a removal is rejected because the pool is empty.
	OnRemoveRejectedEmpty()

	// OnRemoveKeyNotFound is called whenever a removal by key finds no live payload carrying the key.
	OnRemoveKeyNotFound()

	// OnTraverse is called whenever the live payloads are traversed. length is the number of payloads visited.
	OnTraverse(length uint32)

	// OnTraverseRejectedEmpty is called whenever a traversal is rejected because the pool is empty.
	OnTraverseRejectedEmpty()

	// OnReset is called whenever the pool is re-initialized, discarding all payloads.
	OnReset(capacity uint32)
}
