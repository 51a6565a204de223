package engine

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID uint64

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// Event is a multi-cast event carrying one argument. Listeners run in
// registration order on the goroutine that calls Invoke.
type Event[T any] struct {
	listeners []listener[T]
	nextID    ListenerID
}

// AddListener registers callback and returns its id. A nil callback is
// ignored and yields id 0.
func (e *Event[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener unregisters the listener with the given id. It reports
// whether a listener was removed.
func (e *Event[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Event[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *Event[T]) Invoke(arg T) {
	// Listeners may remove themselves while running.
	snapshot := append([]listener[T](nil), e.listeners...)
	for _, l := range snapshot {
		l.fn(arg)
	}
}

func (e *Event[T]) ListenerCount() int {
	return len(e.listeners)
}
