package world

import (
	"encoding/json"

	"goblincamp/internal/protocol"
)

// broadcastObs builds the post-tick observation and fans it out to every
// attached client. A client whose outbound buffer is full skips this tick's
// frame; it never blocks the loop.
func (w *World) broadcastObs(nowTick uint64) {
	for _, e := range w.events {
		e["t"] = nowTick
	}
	if len(w.clients) == 0 {
		return
	}

	obs := w.buildObs(nowTick)
	raw, err := json.Marshal(obs)
	if err != nil {
		return
	}
	for _, c := range w.clients {
		select {
		case c.Out <- raw:
		default:
		}
	}
}

func (w *World) buildObs(nowTick uint64) protocol.ObsMsg {
	hits, misses := w.paths.Stats()
	obs := protocol.ObsMsg{
		Type:             protocol.TypeObs,
		ProtocolVersion:  protocol.Version,
		Tick:             nowTick,
		JobCount:         len(w.jobs),
		DesignationCount: len(w.designations),
		CacheStats:       protocol.CacheStats{Hits: hits, Misses: misses},
		Events:           append([]protocol.Event(nil), w.events...),
	}

	seen := map[Vec2]bool{}
	for _, wk := range sortedByID(w.workers) {
		obs.Workers = append(obs.Workers, protocol.WorkerStatus{
			ID:       wk.ID,
			Name:     wk.Name,
			Pos:      [2]int{wk.Pos.X, wk.Pos.Y},
			Job:      wk.Job,
			Carrying: wk.Carrying,
		})
		for _, p := range w.visibleFrom(wk.Pos) {
			if seen[p] {
				continue
			}
			seen[p] = true
			obs.VisibleTiles = append(obs.VisibleTiles, protocol.VisibleTile{
				Pos:  [2]int{p.X, p.Y},
				Kind: w.tiles.Get(p).String(),
			})
		}
	}
	return obs
}
