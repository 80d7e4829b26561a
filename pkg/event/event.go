// Package event provides a small in-process event bus. Services fire
// domain events (order placed, user registered) and listeners such as
// the mail job and the admin websocket feed subscribe to them.
package event

import "sync"

// Handler receives an event payload.
type Handler func(payload any)

// Bus is a named-event dispatcher safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], h)
}

// Fire dispatches an event synchronously to all registered listeners.
func (b *Bus) Fire(event string, payload any) {
	for _, h := range b.snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and
// returns without waiting for them. In-flight handlers are tracked so
// Flush can drain them.
func (b *Bus) FireAsync(event string, payload any) {
	for _, h := range b.snapshot(event) {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			h(payload)
		}(h)
	}
}

// Flush waits for in-flight async handlers, then removes all listeners.
// Called at shutdown and in tests.
func (b *Bus) Flush() {
	b.wg.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

func (b *Bus) snapshot(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	return hs
}

// Default is the process-wide bus.
var Default = NewBus()

// Listen registers a handler on the default bus.
func Listen(event string, h Handler) { Default.Listen(event, h) }

// Fire dispatches on the default bus.
func Fire(event string, payload any) { Default.Fire(event, payload) }

// FireAsync dispatches concurrently on the default bus.
func FireAsync(event string, payload any) { Default.FireAsync(event, payload) }

// Flush clears the default bus.
func Flush() { Default.Flush() }
