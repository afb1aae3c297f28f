package navpath

import "github.com/mosswood-robotics/gridnav/internal/geom"

// History is a fixed-capacity ring buffer of recent positions, used to bound
// the memory of pose trails shown in visualization. It is mutated in place
// and is not safe for concurrent use; callers own the synchronisation.
type History struct {
	points   []geom.Vector
	capacity int
	head     int // next write position
	size     int
}

// NewHistory creates a history ring with the given capacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 10
	}
	return &History{
		points:   make([]geom.Vector, capacity),
		capacity: capacity,
	}
}

// Add stores a position, overwriting the oldest when at capacity.
func (h *History) Add(v geom.Vector) {
	h.points[h.head] = v
	h.head = (h.head + 1) % h.capacity
	if h.size < h.capacity {
		h.size++
	}
}

// Len returns the number of stored positions.
func (h *History) Len() int { return h.size }

// Last returns the most recently added position, or ok=false when empty.
func (h *History) Last() (geom.Vector, bool) {
	if h.size == 0 {
		return geom.Vector{}, false
	}
	return h.points[(h.head-1+h.capacity)%h.capacity], true
}

// Snapshot copies the ring out as a Path ordered oldest to newest.
func (h *History) Snapshot() Path {
	out := make([]geom.Vector, 0, h.size)
	start := (h.head - h.size + h.capacity) % h.capacity
	for i := 0; i < h.size; i++ {
		out = append(out, h.points[(start+i)%h.capacity])
	}
	return Path{points: out}
}
