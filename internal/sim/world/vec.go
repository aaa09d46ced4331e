package world

// Vec2 is a tile coordinate.
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Manhattan distance between two tiles.
func Manhattan(a, b Vec2) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// neighbor offsets in fixed N/E/S/W order; every loop over neighbors must use
// this table so tie-breaks are stable.
var neighborOffsets = [4]Vec2{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// adjacentOrAt reports whether a is on b or on one of its 4 neighbors.
func adjacentOrAt(a, b Vec2) bool {
	return Manhattan(a, b) <= 1
}
