package costmap

// Smudge returns a copy of the grid with obstacles inflated by the given
// radius (Euclidean, in cells). Every cell within radius of a seed cell is
// raised to at least ObstacleThreshold; seed cells keep their original cost.
//
// Seeds are cells whose cost STRICTLY exceeds the threshold. Inflated cells
// are written as exactly the threshold, so they never seed a later pass:
// Smudge(r) applied twice with the same radius equals a single application.
//
// preserveUnknown=true leaves CostUnknown cells untouched so downstream
// search policy can still tell unknown apart from free and obstacle.
// preserveUnknown=false rewrites unknown cells as free before inflation, so
// unknown cells near obstacles end up inflated like any other cell.
//
// The receiver is never mutated.
func (g *Grid) Smudge(radius int, preserveUnknown bool) *Grid {
	out := g.Clone()
	if !preserveUnknown {
		for i, c := range out.cells {
			if c == CostUnknown {
				out.cells[i] = 0
			}
		}
	}
	if radius <= 0 {
		return out
	}

	offsets := discOffsets(radius)
	for cy := 0; cy < g.Height; cy++ {
		for cx := 0; cx < g.Width; cx++ {
			seed := g.cells[g.Idx(cx, cy)]
			if seed == CostUnknown || seed <= ObstacleThreshold {
				continue
			}
			for _, off := range offsets {
				nx, ny := cx+off.X, cy+off.Y
				if !out.InBounds(nx, ny) {
					continue
				}
				i := out.Idx(nx, ny)
				cur := out.cells[i]
				if preserveUnknown && cur == CostUnknown {
					continue
				}
				if cur < ObstacleThreshold {
					out.cells[i] = ObstacleThreshold
				}
			}
		}
	}
	return out
}

// discOffsets enumerates the relative cell offsets within a Euclidean disc
// of the given radius, excluding the centre cell.
func discOffsets(radius int) []Cell {
	r2 := radius * radius
	offsets := make([]Cell, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if dx*dx+dy*dy <= r2 {
				offsets = append(offsets, Cell{X: dx, Y: dy})
			}
		}
	}
	return offsets
}
