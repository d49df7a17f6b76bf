package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onflow/flow-slotpool/module"
)

type SlotPoolCollector struct {
	gaugeLiveSize prometheus.Gauge
	gaugeCapacity prometheus.Gauge

	histogramTraversalLength prometheus.Histogram

	countOperations *prometheus.CounterVec
	countResets     prometheus.Counter
}

var _ module.SlotPoolMetrics = (*SlotPoolCollector)(nil)

// DefaultSlotPoolMetricsFactory returns the collector of the pool served by the command line driver.
func DefaultSlotPoolMetricsFactory(nameSpace string, registrar prometheus.Registerer) *SlotPoolCollector {
	return NewSlotPoolCollector(nameSpace, ResourceDefaultPool, registrar)
}

func NewSlotPoolCollector(nameSpace string, poolName string, registrar prometheus.Registerer) *SlotPoolCollector {
	if nameSpace == "" {
		nameSpace = namespaceSlotPool
	}

	gaugeLiveSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: nameSpace,
		Subsystem: subsystemSlots,
		Name:      poolName + "_" + "live_count",
		Help:      "number of slots currently holding a payload",
	})

	gaugeCapacity := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: nameSpace,
		Subsystem: subsystemSlots,
		Name:      poolName + "_" + "capacity",
		Help:      "total number of slots the pool cycles through",
	})

	histogramTraversalLength := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: nameSpace,
		Subsystem: subsystemSlots,
		// traversal length is bounded by the capacity, which is small for the pools we run.
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		Name:    poolName + "_" + "traversal_length",
		Help:    "histogram of the number of payloads visited per traversal",
	})

	countOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemSlots,
		Name:      poolName + "_" + "operations_total",
		Help:      "total number of pool operations, by operation and outcome",
	}, []string{LabelOperation, LabelOutcome})

	countResets := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemSlots,
		Name:      poolName + "_" + "reset_total",
		Help:      "total number of times the pool was re-initialized",
	})

	registrar.MustRegister(
		// occupancy
		gaugeLiveSize,
		gaugeCapacity,

		// reads
		histogramTraversalLength,

		// writes
		countOperations,
		countResets)

	return &SlotPoolCollector{
		gaugeLiveSize: gaugeLiveSize,
		gaugeCapacity: gaugeCapacity,

		histogramTraversalLength: histogramTraversalLength,

		countOperations: countOperations,
		countResets:     countResets,
	}
}

// OnInsertSuccess is called whenever a payload is appended to the pool.
func (s *SlotPoolCollector) OnInsertSuccess(size uint32) {
	s.gaugeLiveSize.Set(float64(size))
	s.countOperations.WithLabelValues(OperationInsert, OutcomeSuccess).Inc()
}

// OnInsertRejected is called whenever an insertion is rejected because every slot of the pool is live.
func (s *SlotPoolCollector) OnInsertRejected() {
	s.countOperations.WithLabelValues(OperationInsert, OutcomePoolFull).Inc()
}

// OnRemoveSuccess is called whenever a payload is removed from the pool, either from its head or by key.
func (s *SlotPoolCollector) OnRemoveSuccess(size uint32) {
	s.gaugeLiveSize.Set(float64(size))
	s.countOperations.WithLabelValues(OperationRemove, OutcomeSuccess).Inc()
}

// OnRemoveRejectedEmpty is called whenever a removal is rejected because the pool is empty.
func (s *SlotPoolCollector) OnRemoveRejectedEmpty() {
	s.countOperations.WithLabelValues(OperationRemove, OutcomePoolEmpty).Inc()
}

// OnRemoveKeyNotFound is called whenever a removal by key finds no live payload carrying the key.
func (s *SlotPoolCollector) OnRemoveKeyNotFound() {
	s.countOperations.WithLabelValues(OperationRemove, OutcomeNotFound).Inc()
}

// OnTraverse is called whenever the live payloads are traversed.
func (s *SlotPoolCollector) OnTraverse(length uint32) {
	s.histogramTraversalLength.Observe(float64(length))
	s.countOperations.WithLabelValues(OperationTraverse, OutcomeSuccess).Inc()
}

// OnTraverseRejectedEmpty is called whenever a traversal is rejected because the pool is empty.
func (s *SlotPoolCollector) OnTraverseRejectedEmpty() {
	s.countOperations.WithLabelValues(OperationTraverse, OutcomePoolEmpty).Inc()
}

// OnReset is called whenever the pool is re-initialized.
func (s *SlotPoolCollector) OnReset(capacity uint32) {
	s.gaugeCapacity.Set(float64(capacity))
	s.gaugeLiveSize.Set(0)
	s.countResets.Inc()
}
