package slot

import "fmt"

// Payload is the caller data held by a live slot of a pool.
type Payload struct {
	// Key is used to locate a payload on conditional removal. Keys are not unique, the
	// first match counted from the oldest payload wins.
	Key   int `cbor:"1,keyasint"`
	Value int `cbor:"2,keyasint"`
}

func (p Payload) String() string {
	return fmt.Sprintf("{key: %d, value: %d}", p.Key, p.Value)
}
