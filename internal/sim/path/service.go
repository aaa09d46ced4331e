// Package path answers shortest-path queries over a walkability grid and
// memoizes results in a bounded LRU cache. Cache entries are keyed by
// (start, goal, grid version), so a cached answer is always observationally
// equal to a fresh computation against the same map revision: callers cannot
// tell a hit from a cold solve.
package path

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Grid is the walkability view the service plans over. Version must change
// whenever walkability changes anywhere on the grid.
type Grid interface {
	IsWalkable(x, y int) bool
	Version() uint64
}

// Request is one entry of a Batch call.
type Request struct {
	Start Point
	Goal  Point
}

// Result is a solved path including both endpoints, with its total step cost.
// A nil Result (ok=false from Get) means no path exists at this map version,
// which is a normal outcome, not an error.
type Result struct {
	Path []Point
	Cost int
}

type cacheKey struct {
	start   Point
	goal    Point
	version uint64
}

const DefaultCacheCapacity = 256

type Service struct {
	grid  Grid
	cache *lru.Cache[cacheKey, *Result]

	hits   uint64
	misses uint64
}

// NewService wraps grid with a result cache of the given capacity.
// Capacity <= 0 falls back to DefaultCacheCapacity.
func NewService(grid Grid, capacity int) *Service {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	cache, err := lru.New[cacheKey, *Result](capacity)
	if err != nil {
		// lru.New only fails on capacity <= 0, which is handled above.
		panic(err)
	}
	return &Service{grid: grid, cache: cache}
}

// Get returns the shortest path from start to goal at the current map
// version, or ok=false when no path exists. Negative results are cached too:
// "no path" is as expensive to discover as a path is to find.
func (s *Service) Get(start, goal Point) (*Result, bool) {
	key := cacheKey{start: start, goal: goal, version: s.grid.Version()}
	if v, ok := s.cache.Get(key); ok {
		s.hits++
		return cloneResult(v), v != nil
	}
	s.misses++

	pts, cost, ok := astar(s.grid, start, goal)
	var res *Result
	if ok {
		res = &Result{Path: pts, Cost: cost}
	}
	s.cache.Add(key, res)
	return cloneResult(res), ok
}

// Batch resolves several requests in order. Each request goes through the
// same cache as Get, so repeats within one batch hit.
func (s *Service) Batch(reqs []Request) []*Result {
	out := make([]*Result, 0, len(reqs))
	for _, r := range reqs {
		res, _ := s.Get(r.Start, r.Goal)
		out = append(out, res)
	}
	return out
}

// Stats reports cumulative cache hits and misses.
func (s *Service) Stats() (hits, misses uint64) {
	return s.hits, s.misses
}

// ResetStats zeroes the hit/miss counters.
func (s *Service) ResetStats() {
	s.hits = 0
	s.misses = 0
}

// Len reports the number of cached entries, for eviction tests.
func (s *Service) Len() int { return s.cache.Len() }

// cloneResult hands each caller its own path slice so a cached entry can
// never be mutated through a returned value.
func cloneResult(r *Result) *Result {
	if r == nil {
		return nil
	}
	pts := make([]Point, len(r.Path))
	copy(pts, r.Path)
	return &Result{Path: pts, Cost: r.Cost}
}
