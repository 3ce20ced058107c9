package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSortableAddressesAreUnique(t *testing.T) {
	first := NewTimeSortableAddress()
	second := NewTimeSortableAddress()

	assert.False(t, first.Equal(second))
	assert.NotEmpty(t, first.String())
	assert.NotEmpty(t, second.String())
}

func TestSequentialAddressesAreMonotonic(t *testing.T) {
	seq := newAddressSequence()

	a := seq.next("worker")
	b := seq.next("worker")
	c := seq.next("worker")

	assert.Equal(t, "worker#1", a.String())
	assert.Equal(t, "worker#2", b.String())
	assert.Equal(t, "worker#3", c.String())
}

func TestZeroAddressIsZero(t *testing.T) {
	var a Address
	assert.True(t, a.IsZero())

	a = Address{canonical: "x"}
	assert.False(t, a.IsZero())
}
