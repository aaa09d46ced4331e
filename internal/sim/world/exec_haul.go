package world

import "goblincamp/internal/protocol"

// haulPlan is one job's intent for this tick, produced by the planning phase
// and committed by the apply phases. Splitting plan from apply keeps the
// executor's reads from seeing the writes of jobs planned earlier in the
// same tick.
type haulPlan struct {
	job    *Job
	worker *Worker

	move    *Vec2  // next tile for the worker, nil when standing still
	pickup  string // item id grabbed this tick
	deposit bool   // item dropped at job.To this tick

	cancel  string // job torn down, reason code
	release string // worker freed, job back to queue, reason code
}

// executeHaul advances every assigned HAUL job: walk to the item, pick it
// up, walk to the stockpile tile, deposit. Pickup and deposit each happen
// on the tick the worker arrives.
func (w *World) executeHaul(nowTick uint64) {
	jobs := w.assignedJobs(JobHaul)
	plans := make([]haulPlan, 0, len(jobs))

	// Phase 1: plan. No world state changes here.
	claimed := map[string]bool{}
	for _, j := range jobs {
		wk := w.workers[j.Worker]
		p := haulPlan{job: j, worker: wk}

		it, ok := w.items[j.Item]
		switch {
		case !ok, it.CarriedBy != "" && it.CarriedBy != wk.ID, claimed[j.Item]:
			p.cancel = protocol.ErrInvalidTarget
		case wk.Carrying == "":
			claimed[j.Item] = true
			pos := wk.Pos
			if pos != it.Pos {
				if !w.routeTo(wk, it.Pos) {
					p.release = protocol.ErrNoPath
					break
				}
				if len(wk.Path) > 0 {
					next := wk.Path[0]
					p.move = &next
					pos = next
				}
			}
			if pos == it.Pos {
				p.pickup = it.ID
			}
		case wk.Carrying != j.Item:
			// Holding something other than the job's item. Release puts
			// the carried item back on the ground.
			p.release = protocol.ErrConflict
		default:
			pos := wk.Pos
			if pos != j.To {
				if !w.routeTo(wk, j.To) {
					p.release = protocol.ErrNoPath
					break
				}
				if len(wk.Path) > 0 {
					next := wk.Path[0]
					p.move = &next
					pos = next
				}
			}
			if pos == j.To {
				p.deposit = true
			}
		}
		plans = append(plans, p)
	}

	// Phase 2: commit worker movement.
	for i := range plans {
		p := &plans[i]
		if p.cancel != "" || p.release != "" || p.move == nil {
			continue
		}
		if !w.tiles.IsWalkable(p.move.X, p.move.Y) {
			p.worker.Path = nil
			p.move = nil
			p.pickup = ""
			p.deposit = false
			continue
		}
		w.stepAlong(p.worker)
	}

	// Phase 3: commit item transfers.
	for i := range plans {
		p := &plans[i]
		if p.pickup != "" {
			w.pickUp(p.worker, w.items[p.pickup])
			w.audit(nowTick, p.worker.ID, "PICKUP", p.worker.Pos, p.pickup)
		}
		if p.deposit {
			it := w.items[p.worker.Carrying]
			w.putDown(p.worker, it, p.job.To)
			w.audit(nowTick, p.worker.ID, "DEPOSIT", p.job.To, it.ID)
		}
	}

	// Phase 4: retire finished and broken jobs.
	for i := range plans {
		p := &plans[i]
		switch {
		case p.cancel != "":
			w.event(protocol.Event{
				"type":   "JOB_CANCELLED",
				"job":    p.job.ID,
				"reason": p.cancel,
			})
			w.completeJob(p.job)
		case p.release != "":
			w.event(protocol.Event{
				"type":   "JOB_BLOCKED",
				"job":    p.job.ID,
				"worker": p.worker.ID,
				"reason": p.release,
			})
			w.releaseJob(p.job)
		case p.deposit:
			w.event(protocol.Event{
				"type":   "TASK_DONE",
				"job":    p.job.ID,
				"worker": p.worker.ID,
				"kind":   string(JobHaul),
				"pos":    [2]int{p.job.To.X, p.job.To.Y},
			})
			w.completeJob(p.job)
		}
	}
}
