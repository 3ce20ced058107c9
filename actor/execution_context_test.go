package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionContextSetGetClear(t *testing.T) {
	ec := NewExecutionContext()

	_, ok := ec.Get("missing")
	assert.False(t, ok)

	ec.Set("request-id", "abc-123")
	value, ok := ec.Get("request-id")
	assert.True(t, ok)
	assert.Equal(t, "abc-123", value)

	ec.Clear()
	_, ok = ec.Get("request-id")
	assert.False(t, ok)
}
