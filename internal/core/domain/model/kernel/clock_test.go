package kernel_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
)

func TestSteppingClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := kernel.SteppingClock(start, time.Second)

	assert.Equal(t, start, clock())
	assert.Equal(t, start.Add(time.Second), clock())
	assert.Equal(t, start.Add(2*time.Second), clock())
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := kernel.FixedClock(at)

	assert.Equal(t, at, clock())
	assert.Equal(t, at, clock())
}
