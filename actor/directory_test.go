package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryRegisterGetUnregister(t *testing.T) {
	stage := NewStage()
	defer stage.Close().Wait()

	def := NewDefinition("probe", func() Actor { return struct{}{} })
	def.Address = Address{canonical: "probe-1"}
	cell := newActorCell(stage, def, nil, false)

	require.NoError(t, stage.directory.Register(cell))
	assert.ErrorIs(t, stage.directory.Register(cell), ErrAlreadyRegistered)

	got, ok := stage.directory.Get(def.Address)
	assert.True(t, ok)
	assert.Same(t, cell, got)

	stage.directory.Unregister(def.Address)
	_, ok = stage.directory.Get(def.Address)
	assert.False(t, ok)
}

// TestDirectoryProxyIsInterned asserts two lookups for the same address
// return the identical *Proxy value.
func TestDirectoryProxyIsInterned(t *testing.T) {
	stage := NewStage()
	defer stage.Close().Wait()

	def := NewDefinition("probe", func() Actor { return struct{}{} })
	def.Address = Address{canonical: "probe-2"}
	cell := newActorCell(stage, def, nil, false)
	require.NoError(t, stage.directory.Register(cell))

	p1, ok := stage.directory.ProxyFor(def.Address)
	require.True(t, ok)
	p2, ok := stage.directory.ProxyFor(def.Address)
	require.True(t, ok)
	assert.True(t, p1 == p2)
}

func TestDirectoryStatsSumsToSize(t *testing.T) {
	dir := NewDirectory(8)
	stage := NewStage()
	defer stage.Close().Wait()

	for i := 0; i < 20; i++ {
		def := NewDefinition("probe", func() Actor { return struct{}{} })
		def.Address = NewTimeSortableAddress()
		cell := newActorCell(stage, def, nil, false)
		require.NoError(t, dir.Register(cell))
	}

	total := 0
	for _, count := range dir.Stats() {
		total += count
	}
	assert.Equal(t, 20, total)
	assert.Equal(t, 20, dir.Size())
}

func TestDirectoryShardCountClampedToOne(t *testing.T) {
	dir := NewDirectory(0)
	assert.Len(t, dir.shards, 1)
}
