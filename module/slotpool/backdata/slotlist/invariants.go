package slotlist

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CheckInvariants validates the structural invariants of the pool:
//   - live size never exceeds capacity, and live + free sizes add up to capacity;
//   - head and tail are undefined iff the live chain is empty, free head is undefined iff the free chain is empty;
//   - the live chain reaches its tail from its head in exactly size steps, and back via prev;
//   - the free chain is terminated, its slots keep prev undefined;
//   - every slot belongs to exactly one chain.
//
// It returns nil for a consistent pool, otherwise a *multierror.Error holding every violation found.
func (p *Pool) CheckInvariants() error {
	var errs *multierror.Error

	if p.used.size > p.capacity {
		errs = multierror.Append(errs, fmt.Errorf("live size %d exceeds capacity %d", p.used.size, p.capacity))
	}
	if uint64(p.used.size)+uint64(p.free.size) != uint64(p.capacity) {
		errs = multierror.Append(errs, fmt.Errorf("live size %d and free size %d do not add up to capacity %d", p.used.size, p.free.size, p.capacity))
	}

	if p.used.size == 0 {
		if p.used.head != InvalidIndex || p.used.tail != InvalidIndex {
			errs = multierror.Append(errs, fmt.Errorf("empty live chain has head %d and tail %d", p.used.head, p.used.tail))
		}
	} else if !p.inRange(p.used.head) || !p.inRange(p.used.tail) {
		errs = multierror.Append(errs, fmt.Errorf("live chain of size %d has head %d and tail %d", p.used.size, p.used.head, p.used.tail))
		// the chains cannot be walked without a valid head and tail.
		return errs.ErrorOrNil()
	}

	if p.free.size == 0 && p.free.head != InvalidIndex {
		errs = multierror.Append(errs, fmt.Errorf("empty free chain has head %d", p.free.head))
	}
	if p.free.size != 0 && !p.inRange(p.free.head) {
		errs = multierror.Append(errs, fmt.Errorf("free chain of size %d has head %d", p.free.size, p.free.head))
	}

	owner := make(map[SlotIndex]string, p.capacity)
	claim := func(slotIndex SlotIndex, chainName string) bool {
		if other, ok := owner[slotIndex]; ok {
			errs = multierror.Append(errs, fmt.Errorf("slot %d is reachable from the %s chain and the %s chain", slotIndex, other, chainName))
			return false
		}
		owner[slotIndex] = chainName
		return true
	}

	// forward walk of the live chain
	forward := make([]SlotIndex, 0, p.used.size)
	slotIndex := p.used.head
	for step := uint32(0); step < p.used.size; step++ {
		if !p.inRange(slotIndex) {
			errs = multierror.Append(errs, fmt.Errorf("live chain broken at step %d of %d: next index %d", step, p.used.size, slotIndex))
			break
		}
		if !claim(slotIndex, "live") {
			break
		}
		forward = append(forward, slotIndex)
		slotIndex = p.slots[slotIndex].node.next
	}
	if uint32(len(forward)) == p.used.size && p.used.size > 0 {
		if last := forward[len(forward)-1]; last != p.used.tail {
			errs = multierror.Append(errs, fmt.Errorf("live chain walked from head ends at slot %d, tail is slot %d", last, p.used.tail))
		}
		if next := p.slots[p.used.tail].node.next; next != InvalidIndex {
			errs = multierror.Append(errs, fmt.Errorf("live tail %d points next to %d", p.used.tail, next))
		}
		if prev := p.slots[p.used.head].node.prev; prev != InvalidIndex {
			errs = multierror.Append(errs, fmt.Errorf("live head %d points back to %d", p.used.head, prev))
		}

		// backward walk must mirror the forward walk
		slotIndex = p.used.tail
		for i := len(forward) - 1; i >= 0; i-- {
			if slotIndex != forward[i] {
				errs = multierror.Append(errs, fmt.Errorf("live chain walked from tail visits slot %d at position %d, walked from head it visits slot %d", slotIndex, i, forward[i]))
				break
			}
			slotIndex = p.slots[slotIndex].node.prev
		}
	}

	// free chain
	freeSteps := uint32(0)
	slotIndex = p.free.head
	for slotIndex != InvalidIndex {
		if !p.inRange(slotIndex) {
			errs = multierror.Append(errs, fmt.Errorf("free chain broken at step %d: next index %d", freeSteps, slotIndex))
			break
		}
		if !claim(slotIndex, "free") {
			break
		}
		if prev := p.slots[slotIndex].node.prev; prev != InvalidIndex {
			errs = multierror.Append(errs, fmt.Errorf("free slot %d points back to %d", slotIndex, prev))
		}
		freeSteps++
		slotIndex = p.slots[slotIndex].node.next
	}
	if freeSteps != p.free.size {
		errs = multierror.Append(errs, fmt.Errorf("free chain holds %d slots, expected %d", freeSteps, p.free.size))
	}

	if uint32(len(owner)) != p.capacity {
		errs = multierror.Append(errs, fmt.Errorf("chains cover %d slots out of %d", len(owner), p.capacity))
	}

	return errs.ErrorOrNil()
}
