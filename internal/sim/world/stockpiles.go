package world

import (
	"fmt"
	"sort"
)

// Stockpile is an axis-aligned rectangle of floor tiles accepting item kinds.
type Stockpile struct {
	ID      string   `json:"id"`
	Seq     uint64   `json:"seq"`
	Min     Vec2     `json:"min"`
	Max     Vec2     `json:"max"` // inclusive
	Accepts []string `json:"accepts"`
}

func (s *Stockpile) contains(p Vec2) bool {
	return p.X >= s.Min.X && p.X <= s.Max.X && p.Y >= s.Min.Y && p.Y <= s.Max.Y
}

func (s *Stockpile) accepts(kind string) bool {
	for _, k := range s.Accepts {
		if k == kind {
			return true
		}
	}
	return false
}

func (w *World) addStockpile(min, max Vec2, accepts []string) *Stockpile {
	if max.X < min.X {
		min.X, max.X = max.X, min.X
	}
	if max.Y < min.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	accepts = append([]string(nil), accepts...)
	sort.Strings(accepts)
	seq := w.nextStockpileNum.Add(1)
	s := &Stockpile{
		ID:      fmt.Sprintf("S%d", seq),
		Seq:     seq,
		Min:     min,
		Max:     max,
		Accepts: accepts,
	}
	w.stockpiles[s.ID] = s
	return s
}

func (w *World) insideStockpile(pos Vec2, kind string) bool {
	for _, s := range w.stockpiles {
		if s.accepts(kind) && s.contains(pos) {
			return true
		}
	}
	return false
}

// nearestStockpileFor picks the walkable tile closest to from among all
// stockpiles accepting kind. Ties break on distance, then stockpile seq,
// then tile scan order, so the choice is stable across runs.
func (w *World) nearestStockpileFor(kind string, from Vec2) (Vec2, bool) {
	piles := make([]*Stockpile, 0, len(w.stockpiles))
	for _, s := range w.stockpiles {
		if s.accepts(kind) {
			piles = append(piles, s)
		}
	}
	sort.Slice(piles, func(i, j int) bool { return piles[i].Seq < piles[j].Seq })

	best := Vec2{}
	bestDist := -1
	for _, s := range piles {
		for y := s.Min.Y; y <= s.Max.Y; y++ {
			for x := s.Min.X; x <= s.Max.X; x++ {
				if !w.tiles.IsWalkable(x, y) {
					continue
				}
				d := Manhattan(from, Vec2{x, y})
				if bestDist < 0 || d < bestDist {
					best, bestDist = Vec2{x, y}, d
				}
			}
		}
	}
	return best, bestDist >= 0
}
