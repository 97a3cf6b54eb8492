package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_PushPopOrder(t *testing.T) {
	m := NewManager()
	w1 := NewWaiter(&recordingDelegate{}, Location{})
	w2 := NewWaiter(&recordingDelegate{}, Location{})

	m.Push(w1)
	m.Push(w2)
	assert.Len(t, m.stack, 2)

	m.Pop(w2)
	assert.Equal(t, []*Waiter{w1}, m.stack)

	m.Pop(w1)
	assert.Empty(t, m.stack)
}

func TestManager_InterruptInnerOnlyAffectsWaitersAfterOuter(t *testing.T) {
	m := NewManager()
	outer := NewWaiter(&recordingDelegate{}, Location{})
	before := NewWaiter(&recordingDelegate{}, Location{})
	inner1 := NewWaiter(&recordingDelegate{}, Location{})
	inner2 := NewWaiter(&recordingDelegate{}, Location{})

	m.Push(before)
	m.Push(outer)
	m.Push(inner1)
	m.Push(inner2)

	m.interruptInner(outer)

	assert.Equal(t, stateReady, before.state)
	assert.Equal(t, stateFinished, inner1.state)
	assert.Equal(t, stateFinished, inner2.state)
	assert.Equal(t, Interrupted, inner1.result.Kind)
	assert.Same(t, outer, inner1.result.InterruptedBy)
}
