package actor

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Address is the opaque, immutable identity of an actor. Equality and
// hashing are both defined over the canonical string form, so Address is
// safe to use as a map key and to compare with ==.
type Address struct {
	canonical string
}

// String returns the canonical form of the address.
func (a Address) String() string {
	return a.canonical
}

// IsZero reports whether a has never been assigned a canonical form.
func (a Address) IsZero() bool {
	return a.canonical == ""
}

// Equal reports whether two addresses denote the same actor.
func (a Address) Equal(other Address) bool {
	return a.canonical == other.canonical
}

// addressSequence is a monotonic counter backing
// Stage.NewSequentialAddress. Each Stage owns one.
type addressSequence struct {
	counter uint64
}

func newAddressSequence() *addressSequence {
	return &addressSequence{}
}

// next formats a monotonically increasing integer address scoped to the
// sequence's owner.
func (s *addressSequence) next(prefix string) Address {
	n := atomic.AddUint64(&s.counter, 1)
	return Address{canonical: prefix + "#" + uitoa(n)}
}

// NewTimeSortableAddress returns the 128-bit, time-sortable address
// variant: a UUIDv7 rendered to its canonical hyphenated string form.
// UUIDv7 embeds a 48-bit millisecond timestamp in its high bits, so
// addresses minted in different milliseconds sort accordingly; addresses
// minted within the same millisecond are not ordered relative to each
// other.
func NewTimeSortableAddress() Address {
	id, err := uuid.NewV7()
	if err != nil {
		// uuid.NewV7 only fails if the process-wide entropy pool cannot be
		// read; fall back to a random v4 rather than panic the caller.
		id = uuid.New()
	}
	return Address{canonical: id.String()}
}

// uitoa avoids pulling in strconv at call sites that only ever format
// small non-negative counters.
func uitoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
