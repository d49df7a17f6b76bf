package metrics

const (
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
)

const (
	OperationInsert   = "insert"
	OperationRemove   = "remove"
	OperationTraverse = "traverse"
)

const (
	OutcomeSuccess   = "success"
	OutcomePoolFull  = "pool_full"
	OutcomePoolEmpty = "pool_empty"
	OutcomeNotFound  = "not_found"
)

const (
	namespaceSlotPool = "slotpool"
	subsystemSlots    = "slots"
)

const (
	ResourceDefaultPool = "default"
)
