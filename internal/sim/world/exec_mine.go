package world

import (
	"sort"

	"goblincamp/internal/protocol"
)

// executeMine advances every assigned MINE job one step. A worker adjacent
// to its target digs immediately; otherwise it walks one tile toward the
// cheapest adjacent approach. Digging converts the wall to floor, which
// bumps the map version and invalidates cached routes, then drops a stone
// item on the opened tile.
func (w *World) executeMine(nowTick uint64) {
	for _, j := range w.assignedJobs(JobMine) {
		wk := w.workers[j.Worker]

		if w.tiles.Get(j.Target) != TileWall {
			// Someone else opened the tile first.
			w.event(protocol.Event{
				"type":   "JOB_CANCELLED",
				"job":    j.ID,
				"reason": protocol.ErrInvalidTarget,
			})
			w.completeJob(j)
			continue
		}

		if !adjacentOrAt(wk.Pos, j.Target) {
			approach, ok := w.adjacentApproach(wk.Pos, j.Target)
			if !ok || !w.routeTo(wk, approach) {
				w.event(protocol.Event{
					"type":   "JOB_BLOCKED",
					"job":    j.ID,
					"worker": wk.ID,
					"reason": protocol.ErrNoPath,
				})
				w.releaseJob(j)
				continue
			}
			w.stepAlong(wk)
		}
		if !adjacentOrAt(wk.Pos, j.Target) {
			continue
		}

		w.tiles.Set(j.Target, TileFloor)
		it := w.spawnItem(ItemStone, j.Target)
		w.audit(nowTick, wk.ID, "MINE", j.Target, "")
		w.audit(nowTick, wk.ID, "ITEM_SPAWN", j.Target, it.ID)
		w.event(protocol.Event{
			"type":   "TASK_DONE",
			"job":    j.ID,
			"worker": wk.ID,
			"kind":   string(JobMine),
			"pos":    [2]int{j.Target.X, j.Target.Y},
		})
		w.completeJob(j)
	}
}

// assignedJobs returns jobs of kind with a worker attached, in job order.
func (w *World) assignedJobs(kind JobKind) []*Job {
	out := make([]*Job, 0, len(w.jobs))
	for _, j := range w.jobs {
		if j.Kind == kind && j.Worker != "" {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
