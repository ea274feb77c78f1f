package timer

import "sync"

// hub fans out change notifications to observers. Observers are invoked
// after state and persistence are both updated, so they never see a state
// that failed to commit.
type hub struct {
	observers map[int]func()
	nextID    int
	mu        sync.Mutex
}

func newHub() *hub {
	return &hub{
		observers: make(map[int]func()),
	}
}

// subscribe registers an observer and returns a function that removes it.
// Removing an observer during a notification pass does not affect that
// pass.
func (h *hub) subscribe(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.observers[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.observers, id)
	}
}

// notify invokes every currently registered observer exactly once. The
// observer set is copied first so that add/remove from inside a callback
// cannot mutate the pass in flight.
func (h *hub) notify() {
	h.mu.Lock()

	fns := make([]func(), 0, len(h.observers))
	for _, fn := range h.observers {
		fns = append(fns, fn)
	}

	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
