package world

// Terrain generation is an external collaborator to the scheduling core: the
// core only requires Get/Set/IsWalkable. This generator exists so the server
// and tests have a deterministic map source, nothing more.

const spawnClearRadius = 4

// hash2 mixes a seed with a coordinate pair (splitmix-style finalizer).
func hash2(seed int64, x, y int) uint64 {
	h := uint64(seed) ^ 0x9e3779b97f4a7c15
	h ^= uint64(uint32(x)) * 0xbf58476d1ce4e5b9
	h = (h ^ (h >> 30)) * 0xbf58476d1ce4e5b9
	h ^= uint64(uint32(y)) * 0x94d049bb133111eb
	h = (h ^ (h >> 27)) * 0x94d049bb133111eb
	return h ^ (h >> 31)
}

// fieldAt is a cheap two-octave value noise in [0, 1000): bilinear blends of
// lattice hashes at cell sizes 8 and 3.
func fieldAt(seed int64, x, y int) int {
	sample := func(cell int, weight int) int {
		cx, cy := x/cell, y/cell
		fx, fy := x%cell, y%cell
		v00 := int(hash2(seed, cx, cy) % 1000)
		v10 := int(hash2(seed, cx+1, cy) % 1000)
		v01 := int(hash2(seed, cx, cy+1) % 1000)
		v11 := int(hash2(seed, cx+1, cy+1) % 1000)
		top := v00*(cell-fx) + v10*fx
		bot := v01*(cell-fx) + v11*fx
		return weight * (top*(cell-fy) + bot*fy) / (cell * cell)
	}
	return (sample(8, 7) + sample(3, 3)) / 10
}

// GenerateTiles fills a fresh map from a seed: high field values become Wall,
// low become Water, the rest Floor. A clearing around spawn keeps the origin
// navigable so workers are never generated inside rock.
func GenerateTiles(w, h int, seed int64) *TileMap {
	m := NewTileMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if absInt(x) <= spawnClearRadius && absInt(y) <= spawnClearRadius {
				continue // spawn clearing stays Floor
			}
			e := fieldAt(seed, x, y)
			switch {
			case e >= 640:
				m.tiles[y*w+x] = TileWall
			case e < 150:
				m.tiles[y*w+x] = TileWater
			}
		}
	}
	// Generation is not a mutation: a fresh map starts at version 0 no matter
	// what it contains.
	m.version = 0
	return m
}
