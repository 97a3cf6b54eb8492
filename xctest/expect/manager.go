package expect

import "sync"

// Manager is a per-execution-context stack of currently-blocked
// Waiters; it enforces nested-interrupt semantics (spec.md §4.E/§5):
// when an outer Waiter's own timeout fires, every Waiter pushed after
// it is still active is finished with Interrupted.
type Manager struct {
	mu    sync.Mutex
	stack []*Waiter
}

// NewManager constructs an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Push registers w as the new top of the stack.
func (m *Manager) Push(w *Waiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack = append(m.stack, w)
}

// Pop removes w from the stack (it may not be the top, if an inner
// Waiter already finished and popped out of order is not possible
// since Wait's own defer always pops itself last; in practice this
// always operates as a LIFO stack).
func (m *Manager) Pop(w *Waiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i] == w {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			return
		}
	}
}

// interruptInner finishes, with Interrupted, every Waiter pushed onto
// the stack after outer that is still present.
func (m *Manager) interruptInner(outer *Waiter) {
	m.mu.Lock()
	idx := -1
	for i, w := range m.stack {
		if w == outer {
			idx = i
			break
		}
	}
	var inner []*Waiter
	if idx >= 0 {
		inner = append(inner, m.stack[idx+1:]...)
	}
	m.mu.Unlock()

	for _, w := range inner {
		w.interrupt(outer)
	}
}
