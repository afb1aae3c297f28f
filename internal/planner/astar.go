package planner

import (
	"container/heap"
	"math"

	"github.com/mosswood-robotics/gridnav/internal/costmap"
)

// gridMoves is the 8-connected neighbourhood with unit move distances in
// cell widths.
var gridMoves = [8]struct {
	dx, dy int
	dist   float64
}{
	{0, 1, 1}, {1, 0, 1}, {0, -1, 1}, {-1, 0, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

// searchNode is one frontier entry of the A* search.
type searchNode struct {
	cell   costmap.Cell
	g      float64 // cost from start
	h      float64 // heuristic cost to goal
	f      float64 // g + h
	parent *searchNode
	seq    int // insertion sequence, breaks remaining ties deterministically
	index  int // position in the heap
}

// nodeQueue implements heap.Interface ordered by f, then h, then insertion
// sequence. The h tie-break prefers frontier nodes closer to the goal; the
// sequence tie-break makes the search output deterministic for a fixed input.
type nodeQueue []*searchNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].h != q[j].h {
		return q[i].h < q[j].h
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*q = old[:n-1]
	return node
}

// searchResult is the outcome of one grid search.
type searchResult struct {
	cells    []costmap.Cell
	cost     float64
	expanded int
}

// traversalFactor converts a cell cost into a multiplier on move distance.
// Free cells cost factor 1, which is also the minimum possible factor: the
// Euclidean heuristic scaled by it never overestimates, keeping the search
// admissible.
func traversalFactor(cost float64, p Params) float64 {
	if cost == costmap.CostUnknown {
		cost = p.UnknownCost
	}
	return 1 + cost*p.CostPenalty
}

// astarSearch runs A* over the 8-connected grid from start to goal. Obstacle
// cells never enter the frontier. Returns ok=false when the frontier is
// exhausted or the expansion budget runs out before the goal is popped.
func astarSearch(g *costmap.Grid, start, goal costmap.Cell, p Params) (searchResult, bool) {
	res := g.Resolution
	heuristic := func(c costmap.Cell) float64 {
		dx := float64(c.X - goal.X)
		dy := float64(c.Y - goal.Y)
		return math.Sqrt(dx*dx+dy*dy) * res
	}

	open := nodeQueue{}
	heap.Init(&open)

	seq := 0
	startNode := &searchNode{cell: start, g: 0, h: heuristic(start), seq: seq}
	startNode.f = startNode.h
	heap.Push(&open, startNode)

	openByCell := map[costmap.Cell]*searchNode{start: startNode}
	closed := make(map[costmap.Cell]bool)

	result := searchResult{}
	for open.Len() > 0 {
		current := heap.Pop(&open).(*searchNode)
		delete(openByCell, current.cell)

		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true
		result.expanded++

		if current.cell == goal {
			result.cells = reconstruct(current)
			result.cost = current.g
			return result, true
		}

		if p.MaxExpansions > 0 && result.expanded >= p.MaxExpansions {
			return result, false
		}

		for _, mv := range gridMoves {
			next := costmap.Cell{X: current.cell.X + mv.dx, Y: current.cell.Y + mv.dy}
			if closed[next] {
				continue
			}
			cost, ok := g.At(next.X, next.Y)
			if !ok || costmap.IsObstacle(cost) {
				continue
			}

			tentativeG := current.g + mv.dist*res*traversalFactor(cost, p)

			if existing, inOpen := openByCell[next]; inOpen {
				if tentativeG < existing.g {
					existing.g = tentativeG
					existing.f = tentativeG + existing.h
					existing.parent = current
					heap.Fix(&open, existing.index)
				}
				continue
			}

			seq++
			node := &searchNode{
				cell:   next,
				g:      tentativeG,
				h:      heuristic(next),
				parent: current,
				seq:    seq,
			}
			node.f = node.g + node.h
			heap.Push(&open, node)
			openByCell[next] = node
		}
	}

	return result, false
}

// reconstruct backtracks parent pointers from the goal node and reverses the
// chain into start-to-goal order.
func reconstruct(goal *searchNode) []costmap.Cell {
	var cells []costmap.Cell
	for n := goal; n != nil; n = n.parent {
		cells = append(cells, n.cell)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// nearestFreeCell finds the closest non-obstacle cell to the given cell by
// breadth-first search over the 8-connected grid, bounded by maxRadius in
// move count. Returns ok=false when nothing free is reachable in the budget.
func nearestFreeCell(g *costmap.Grid, from costmap.Cell, maxRadius int) (costmap.Cell, bool) {
	if cost, ok := g.At(from.X, from.Y); ok && !costmap.IsObstacle(cost) {
		return from, true
	}

	type entry struct {
		cell costmap.Cell
		dist int
	}
	queue := []entry{{from, 0}}
	visited := map[costmap.Cell]bool{from: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.dist > maxRadius {
			return from, false
		}
		if cost, ok := g.At(cur.cell.X, cur.cell.Y); ok && !costmap.IsObstacle(cost) {
			return cur.cell, true
		}
		for _, mv := range gridMoves {
			next := costmap.Cell{X: cur.cell.X + mv.dx, Y: cur.cell.Y + mv.dy}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, entry{next, cur.dist + 1})
			}
		}
	}
	return from, false
}
