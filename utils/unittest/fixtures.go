package unittest

import (
	"math/rand"

	"go.uber.org/atomic"

	"github.com/onflow/flow-slotpool/model/slot"
)

// keyCounter hands out keys that are unique across all fixtures of a test binary.
var keyCounter = atomic.NewInt64(0)

// PayloadFixture returns a payload with a fresh unique key and a random value.
func PayloadFixture() slot.Payload {
	return slot.Payload{
		Key:   int(keyCounter.Inc()),
		Value: rand.Int(),
	}
}

// PayloadListFixture returns n payloads with pairwise distinct keys.
func PayloadListFixture(n uint) []slot.Payload {
	list := make([]slot.Payload, 0, n)
	for i := uint(0); i < n; i++ {
		list = append(list, PayloadFixture())
	}

	return list
}

// Values returns the values of the payloads, in order.
func Values(payloads []slot.Payload) []int {
	values := make([]int, 0, len(payloads))
	for _, p := range payloads {
		values = append(values, p.Value)
	}

	return values
}
