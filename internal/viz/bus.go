package viz

import "sync"

// Drawable is a value a visualization consumer knows how to render: a
// geom.Vector, a navpath.Path or a *costmap.Grid, optionally styled.
type Drawable any

// Style carries optional draw configuration alongside a drawable.
type Style struct {
	Color   string  `json:"color,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Event is one named drawable published on a Bus.
type Event struct {
	Name  string
	Value Drawable
	Style *Style
}

// Bus is a broadcast channel for visualization events. Subscribers each get
// their own buffered channel; a full subscriber drops events instead of
// blocking the publisher. Events published by one goroutine are delivered to
// each subscriber in publish order.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a consumer with the given channel buffer and returns
// the event channel plus a cancel function that closes it.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish broadcasts an unstyled event. See PublishStyled.
func (b *Bus) Publish(name string, value Drawable) {
	b.PublishStyled(name, value, nil)
}

// PublishStyled broadcasts an event to all current subscribers, dropping it
// for any subscriber whose buffer is full. Publishing with no subscribers is
// a safe no-op.
func (b *Bus) PublishStyled(name string, value Drawable, style *Style) {
	ev := Event{Name: name, Value: value, Style: style}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Lossy by contract: never block planning on a consumer.
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
