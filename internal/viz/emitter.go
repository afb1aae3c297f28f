package viz

import "sync"

// Emitter is embedded by components that publish visualization events. The
// underlying Bus is created lazily on the first Stream() call; Vis before
// that point is a no-op, matching the optional nature of visualization.
type Emitter struct {
	mu  sync.Mutex
	bus *Bus
}

// Stream returns the emitter's bus, creating it on first use.
func (e *Emitter) Stream() *Bus {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bus == nil {
		e.bus = NewBus()
	}
	return e.bus
}

// Vis publishes a named drawable if a stream has been requested, and does
// nothing otherwise.
func (e *Emitter) Vis(name string, value Drawable) {
	e.mu.Lock()
	bus := e.bus
	e.mu.Unlock()
	if bus == nil {
		return
	}
	bus.Publish(name, value)
}

// VisStyled is Vis with an attached draw style.
func (e *Emitter) VisStyled(name string, value Drawable, style *Style) {
	e.mu.Lock()
	bus := e.bus
	e.mu.Unlock()
	if bus == nil {
		return
	}
	bus.PublishStyled(name, value, style)
}
