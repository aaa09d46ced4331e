package world

// Status is a point-in-time summary served over the status channel. It is a
// copy; holding it never aliases live world state.
type Status struct {
	WorldID      string `json:"world_id"`
	Tick         uint64 `json:"tick"`
	Designations int    `json:"designations"`
	Jobs         int    `json:"jobs"`
	Workers      int    `json:"workers"`
	Items        int    `json:"items"`
	Stockpiles   int    `json:"stockpiles"`
	Clients      int    `json:"clients"`
	TilesVersion uint64 `json:"tiles_version"`
	CacheHits    uint64 `json:"cache_hits"`
	CacheMisses  uint64 `json:"cache_misses"`
	Digest       string `json:"digest"`
}

func (w *World) status() Status {
	hits, misses := w.paths.Stats()
	return Status{
		WorldID:      w.cfg.ID,
		Tick:         w.tick.Load(),
		Designations: len(w.designations),
		Jobs:         len(w.jobs),
		Workers:      len(w.workers),
		Items:        len(w.items),
		Stockpiles:   len(w.stockpiles),
		Clients:      len(w.clients),
		TilesVersion: w.tiles.Version(),
		CacheHits:    hits,
		CacheMisses:  misses,
		Digest:       w.stateDigest(w.tick.Load()),
	}
}

// QueryStatus asks the loop goroutine for a status snapshot. Safe to call
// from any goroutine while Run is active.
func (w *World) QueryStatus() Status {
	resp := make(chan Status, 1)
	w.statusCh <- resp
	return <-resp
}

// Direct accessors below read live state. They are only safe when the loop
// is not running, which is how the tests and the replay tool drive a world.

func (w *World) DesignationByID(id string) (Designation, bool) {
	d, ok := w.designations[id]
	if !ok {
		return Designation{}, false
	}
	return *d, true
}

func (w *World) JobByID(id string) (Job, bool) {
	j, ok := w.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

func (w *World) WorkerByID(id string) (Worker, bool) {
	wk, ok := w.workers[id]
	if !ok {
		return Worker{}, false
	}
	cp := *wk
	cp.Path = append([]Vec2(nil), wk.Path...)
	return cp, true
}

func (w *World) ItemByID(id string) (Item, bool) {
	it, ok := w.items[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

func (w *World) Designations() []Designation {
	out := make([]Designation, 0, len(w.designations))
	for _, d := range sortedByID(w.designations) {
		out = append(out, *d)
	}
	return out
}

func (w *World) Jobs() []Job {
	out := make([]Job, 0, len(w.jobs))
	for _, j := range sortedByID(w.jobs) {
		out = append(out, *j)
	}
	return out
}

func (w *World) Workers() []Worker {
	out := make([]Worker, 0, len(w.workers))
	for _, wk := range sortedByID(w.workers) {
		cp := *wk
		cp.Path = append([]Vec2(nil), wk.Path...)
		out = append(out, cp)
	}
	return out
}

func (w *World) Items() []Item {
	out := make([]Item, 0, len(w.items))
	for _, it := range sortedByID(w.items) {
		out = append(out, *it)
	}
	return out
}

func (w *World) Tiles() *TileMap { return w.tiles }

func (w *World) PathStats() (hits, misses uint64) { return w.paths.Stats() }

// Events returns the notifications emitted by the most recent tick.
func (w *World) Events() []map[string]any {
	out := make([]map[string]any, len(w.events))
	for i, e := range w.events {
		out[i] = e
	}
	return out
}
