package world

import "goblincamp/internal/sim/path"

func toPoint(v Vec2) path.Point { return path.Point{X: v.X, Y: v.Y} }

func toVecs(pts []path.Point) []Vec2 {
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[i] = Vec2{p.X, p.Y}
	}
	return out
}

// routeTo makes sure the worker holds a current route ending at goal.
// A cached route is reused until the map version moves past the one it was
// computed against. Returns false when no route exists.
func (w *World) routeTo(wk *Worker, goal Vec2) bool {
	if len(wk.Path) > 0 && wk.PathVersion == w.tiles.Version() && wk.Path[len(wk.Path)-1] == goal {
		return true
	}
	res, ok := w.paths.Get(toPoint(wk.Pos), toPoint(goal))
	if !ok || res == nil {
		wk.Path = nil
		return false
	}
	route := toVecs(res.Path)
	// The service includes the start tile; the worker is already there.
	if len(route) > 0 && route[0] == wk.Pos {
		route = route[1:]
	}
	wk.Path = route
	wk.PathVersion = w.tiles.Version()
	return true
}

// stepAlong advances the worker one tile along its route. A route step onto
// a tile that became unwalkable drops the route so the caller replans.
func (w *World) stepAlong(wk *Worker) {
	if len(wk.Path) == 0 {
		return
	}
	next := wk.Path[0]
	if !w.tiles.IsWalkable(next.X, next.Y) {
		wk.Path = nil
		return
	}
	wk.Pos = next
	wk.Path = wk.Path[1:]
	if it, ok := w.items[wk.Carrying]; ok {
		it.Pos = wk.Pos
	}
}

// adjacentApproach picks the walkable neighbor of target cheapest to reach
// from from. Neighbors are probed in the fixed N/E/S/W order, so equal-cost
// choices resolve identically on every run.
func (w *World) adjacentApproach(from, target Vec2) (Vec2, bool) {
	best := Vec2{}
	bestCost := -1
	for _, off := range neighborOffsets {
		n := Vec2{target.X + off.X, target.Y + off.Y}
		if !w.tiles.IsWalkable(n.X, n.Y) {
			continue
		}
		if n == from {
			return n, true
		}
		res, ok := w.paths.Get(toPoint(from), toPoint(n))
		if !ok || res == nil {
			continue
		}
		if bestCost < 0 || res.Cost < bestCost {
			best, bestCost = n, res.Cost
		}
	}
	return best, bestCost >= 0
}
