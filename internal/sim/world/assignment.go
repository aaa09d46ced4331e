package world

import "sort"

// assignmentOrder fixes the per-kind scan sequence. Kinds are handled in
// this order every tick; reordering it changes scheduling outcomes and
// therefore digests.
var assignmentOrder = []JobKind{JobMine, JobHaul}

// assignPass matches queued jobs to idle capable workers. Jobs are taken by
// priority (high first) then submission order; workers by spawn order. The
// pass is idempotent: running it twice in one tick changes nothing, because
// every match removes both sides from their pools.
func (w *World) assignPass() {
	idle := make([]*Worker, 0, len(w.workers))
	for _, wk := range w.workers {
		if wk.Job == "" {
			idle = append(idle, wk)
		}
	}
	sort.Slice(idle, func(i, j int) bool { return idle[i].Seq < idle[j].Seq })

	for _, kind := range assignmentOrder {
		open := make([]*Job, 0, len(w.jobs))
		for _, j := range w.jobs {
			if j.Kind == kind && j.Worker == "" {
				open = append(open, j)
			}
		}
		sort.Slice(open, func(i, j int) bool {
			if open[i].Priority != open[j].Priority {
				return open[i].Priority > open[j].Priority
			}
			return open[i].Seq < open[j].Seq
		})

		for _, j := range open {
			taken := -1
			for i, wk := range idle {
				if wk.Caps.canRun(kind) {
					j.Worker = wk.ID
					wk.Job = j.ID
					wk.Path = nil
					taken = i
					break
				}
			}
			if taken < 0 {
				continue
			}
			idle = append(idle[:taken], idle[taken+1:]...)
		}
	}
}
