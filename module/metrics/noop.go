package metrics

import (
	"github.com/onflow/flow-slotpool/module"
)

type NoopCollector struct{}

var _ module.SlotPoolMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) OnInsertSuccess(uint32)   {}
func (nc *NoopCollector) OnInsertRejected()        {}
func (nc *NoopCollector) OnRemoveSuccess(uint32)   {}
func (nc *NoopCollector) OnRemoveRejectedEmpty()   {}
func (nc *NoopCollector) OnRemoveKeyNotFound()     {}
func (nc *NoopCollector) OnTraverse(uint32)        {}
func (nc *NoopCollector) OnTraverseRejectedEmpty() {}
func (nc *NoopCollector) OnReset(uint32)           {}
