package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockAdvance(t *testing.T) {
	c := NewClock(0.25)
	assert.Equal(t, 0.0, c.Now())

	c.Advance()
	c.Advance()
	assert.Equal(t, 0.5, c.Now())
}

func TestIDAllocatorMonotonic(t *testing.T) {
	a := NewIDAllocator()
	assert.Equal(t, uint64(0), a.Current())

	first := a.Next()
	second := a.Next()
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, second, a.Current())
}
