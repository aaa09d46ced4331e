package path

import "container/heap"

// Point is a tile coordinate on the grid served by a Service.
type Point struct{ X, Y int }

// neighbor offsets for 4-connected movement, fixed order so expansion is
// deterministic regardless of map contents.
var neighborOffsets = [4]Point{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

func manhattan(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

type pathNode struct {
	point  Point
	g      int
	f      int
	seq    int
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

// Ties on f break by insertion sequence so the returned path does not depend
// on heap internals.
func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// astar runs best-first search over walkable tiles with unit step cost and a
// Manhattan heuristic. The start tile need not be walkable (a worker can stand
// on it already); the goal must be.
func astar(g Grid, start, goal Point) ([]Point, int, bool) {
	if !g.IsWalkable(goal.X, goal.Y) {
		return nil, 0, false
	}
	if start == goal {
		return []Point{start}, 0, true
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{point: start, g: 0, f: manhattan(start, goal), seq: seq})
	gScore := map[Point]int{start: 0}
	closed := make(map[Point]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if _, seen := closed[current.point]; seen {
			continue
		}
		closed[current.point] = struct{}{}
		if current.point == goal {
			return reconstruct(current), current.g, true
		}

		for _, d := range neighborOffsets {
			next := Point{X: current.point.X + d.X, Y: current.point.Y + d.Y}
			if !g.IsWalkable(next.X, next.Y) {
				continue
			}
			if _, seen := closed[next]; seen {
				continue
			}
			tentative := current.g + 1
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			seq++
			heap.Push(open, &pathNode{
				point:  next,
				g:      tentative,
				f:      tentative + manhattan(next, goal),
				seq:    seq,
				parent: current,
			})
		}
	}
	return nil, 0, false
}

func reconstruct(end *pathNode) []Point {
	if end == nil {
		return nil
	}
	out := make([]Point, 0)
	for n := end; n != nil; n = n.parent {
		out = append(out, n.point)
	}
	for i := 0; i < len(out)/2; i++ {
		j := len(out) - 1 - i
		out[i], out[j] = out[j], out[i]
	}
	return out
}
