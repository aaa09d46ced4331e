package world

// TileKind is the per-cell terrain class. Values are stable across snapshots;
// append only.
type TileKind uint8

const (
	TileFloor TileKind = iota
	TileWall
	TileWater
	TileLava
)

func (k TileKind) String() string {
	switch k {
	case TileFloor:
		return "FLOOR"
	case TileWall:
		return "WALL"
	case TileWater:
		return "WATER"
	case TileLava:
		return "LAVA"
	}
	return "UNKNOWN"
}

// TileMap is the spatial world model: a dense W×H grid of tile kinds plus a
// mutation counter. Every Set bumps the version; the path cache keys on it,
// which is what makes cached paths safe to serve.
type TileMap struct {
	W, H    int
	tiles   []TileKind
	version uint64
}

func NewTileMap(w, h int) *TileMap {
	return &TileMap{W: w, H: h, tiles: make([]TileKind, w*h)}
}

func (m *TileMap) idx(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0, false
	}
	return y*m.W + x, true
}

func (m *TileMap) InBounds(p Vec2) bool {
	_, ok := m.idx(p.X, p.Y)
	return ok
}

// Get returns the tile kind at p. Out-of-bounds reads as Wall, which keeps
// walkability and line-of-sight checks branch-free at the edges.
func (m *TileMap) Get(p Vec2) TileKind {
	i, ok := m.idx(p.X, p.Y)
	if !ok {
		return TileWall
	}
	return m.tiles[i]
}

// Set mutates one tile and bumps the map version. Only task executors and
// snapshot import call this.
func (m *TileMap) Set(p Vec2, kind TileKind) bool {
	i, ok := m.idx(p.X, p.Y)
	if !ok {
		return false
	}
	if m.tiles[i] == kind {
		return true
	}
	m.tiles[i] = kind
	m.version++
	return true
}

// IsWalkable reports whether a worker may stand on p. Only Floor is walkable.
func (m *TileMap) IsWalkable(x, y int) bool {
	i, ok := m.idx(x, y)
	if !ok {
		return false
	}
	return m.tiles[i] == TileFloor
}

// Version is the mutation counter. It only ever grows.
func (m *TileMap) Version() uint64 { return m.version }

// Kinds exposes the raw row-major tile data for digesting and snapshots.
func (m *TileMap) Kinds() []TileKind { return m.tiles }

// restore replaces the whole grid without bumping the version; snapshot
// import sets the version explicitly afterwards.
func (m *TileMap) restore(kinds []TileKind, version uint64) {
	copy(m.tiles, kinds)
	m.version = version
}
