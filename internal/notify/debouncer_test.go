package notify

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(40 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 10; i++ {
		i := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(i)
		})
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(10), last.Load(), "the latest callback wins")
	assert.False(t, d.Pending())
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	assert.True(t, d.Pending())
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	assert.False(t, called.Load())
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })

	assert.True(t, d.Flush())
	assert.True(t, called.Load())
	assert.False(t, d.Flush(), "nothing left to flush")
}

func TestDebouncerDefaultDuration(t *testing.T) {
	assert.Equal(t, DefaultDebounceDuration, NewDebouncer(0).Duration())
}
