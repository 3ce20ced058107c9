package actor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureResolveThenWait(t *testing.T) {
	f := NewFuture()
	f.Resolve(42)

	value, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestFutureRejectThenWait(t *testing.T) {
	f := NewFuture()
	boom := errors.New("boom")
	f.Reject(boom)

	value, err := f.Wait()
	assert.Nil(t, value)
	assert.ErrorIs(t, err, boom)
}

// TestFutureIsTerminalOnce asserts a Future settles exactly once: the
// first Resolve/Reject wins and every later call is a silent no-op.
func TestFutureIsTerminalOnce(t *testing.T) {
	f := NewFuture()
	f.Resolve("first")
	f.Resolve("second")
	f.Reject(errors.New("third"))

	value, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, "first", value)
}

func TestFuturePeekBeforeResolution(t *testing.T) {
	f := NewFuture()
	_, _, ok := f.Peek()
	assert.False(t, ok)

	f.Resolve(1)
	value, err, ok := f.Peek()
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestFutureWaitBlocksUntilResolved(t *testing.T) {
	f := NewFuture()
	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Resolve("late")
	}()

	select {
	case <-f.Done():
		t.Fatal("future resolved before the goroutine could have run")
	case <-time.After(2 * time.Millisecond):
	}

	value, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, "late", value)
}
