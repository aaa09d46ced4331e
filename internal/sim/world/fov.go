package world

// lineOfSight walks the Bresenham line from a to b and reports whether any
// intermediate tile blocks sight. Walls block; the endpoints themselves do
// not, so the face of a wall is visible.
func (w *World) lineOfSight(a, b Vec2) bool {
	dx := absInt(b.X - a.X)
	dy := -absInt(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		if x == b.X && y == b.Y {
			return true
		}
		if (x != a.X || y != a.Y) && w.tiles.Get(Vec2{x, y}) == TileWall {
			return false
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// visibleFrom collects the tiles a worker at origin can see: everything
// within the vision radius (Chebyshev) with clear line of sight. Returned
// in row-major scan order.
func (w *World) visibleFrom(origin Vec2) []Vec2 {
	r := w.cfg.VisionRadius
	out := make([]Vec2, 0, (2*r+1)*(2*r+1))
	for y := origin.Y - r; y <= origin.Y+r; y++ {
		for x := origin.X - r; x <= origin.X+r; x++ {
			p := Vec2{x, y}
			if !w.tiles.InBounds(p) {
				continue
			}
			if w.lineOfSight(origin, p) {
				out = append(out, p)
			}
		}
	}
	return out
}
