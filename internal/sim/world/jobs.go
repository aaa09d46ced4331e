package world

import (
	"fmt"
	"sort"

	"goblincamp/internal/protocol"
)

type JobKind string

const (
	JobMine JobKind = "MINE"
	JobHaul JobKind = "HAUL"
)

type Job struct {
	ID       string  `json:"id"`
	Seq      uint64  `json:"seq"`
	Kind     JobKind `json:"kind"`
	Priority int     `json:"priority"`

	// MINE: Target is the wall tile to dig.
	Target Vec2 `json:"target"`

	// HAUL: Item to move, From its resting position, To the drop tile.
	Item string `json:"item,omitempty"`
	From Vec2   `json:"from"`
	To   Vec2   `json:"to"`

	Worker      string `json:"worker,omitempty"`
	Designation string `json:"designation,omitempty"`
	CreatedTick uint64 `json:"created_tick"`
}

func (w *World) newJob(kind JobKind, nowTick uint64) *Job {
	seq := w.nextJobNum.Add(1)
	j := &Job{
		ID:          fmt.Sprintf("J%06d", seq),
		Seq:         seq,
		Kind:        kind,
		CreatedTick: nowTick,
	}
	w.jobs[j.ID] = j
	return j
}

// releaseJob detaches a job from its worker (if any), leaving the job queued
// and the worker idle. Anything the worker carries goes back on the ground
// at its position, so an idle worker is always empty-handed. The job itself
// stays in the registry.
func (w *World) releaseJob(j *Job) {
	if j.Worker == "" {
		return
	}
	if wk, ok := w.workers[j.Worker]; ok && wk.Job == j.ID {
		wk.Job = ""
		wk.Path = nil
		if wk.Carrying != "" {
			if it, ok := w.items[wk.Carrying]; ok {
				w.putDown(wk, it, wk.Pos)
			} else {
				wk.Carrying = ""
			}
		}
	}
	j.Worker = ""
}

// completeJob removes a finished job and idles its worker.
func (w *World) completeJob(j *Job) {
	w.releaseJob(j)
	delete(w.jobs, j.ID)
}

// generateJobs turns QUEUED designations into jobs, in submission order.
// A designation whose target went invalid since queueing is cancelled; one
// that produces a job is consumed on the spot. HAUL designations with no
// accepting stockpile, or whose items are all claimed by live jobs, stay
// queued and are retried next tick.
func (w *World) generateJobs(nowTick uint64) {
	queued := make([]*Designation, 0, len(w.designations))
	for _, d := range w.designations {
		if d.State == DesignationQueued {
			queued = append(queued, d)
		}
	}
	sort.Slice(queued, func(i, j int) bool { return queued[i].Seq < queued[j].Seq })

	claimed := w.claimedHaulItems()

	for _, d := range queued {
		if !w.validTarget(d) {
			w.cancelDesignation(d, protocol.ErrInvalidTarget, nowTick)
			continue
		}
		switch d.Kind {
		case DesignationMine:
			j := w.newJob(JobMine, nowTick)
			j.Target = d.Pos
			j.Priority = w.jobPriority()
			j.Designation = d.ID
			d.Job = j.ID
			w.consumeDesignation(d, nowTick)
		case DesignationHaul:
			var item *Item
			for _, id := range w.restingItemsAt(d.Pos) {
				if !claimed[id] {
					item = w.items[id]
					break
				}
			}
			if item == nil {
				// Every item here is already claimed by a live job.
				continue
			}
			dest, ok := w.nearestStockpileFor(item.Kind, d.Pos)
			if !ok {
				// No accepting stockpile yet. Stay queued; a later
				// ADD_STOCKPILE command unblocks it.
				continue
			}
			j := w.newJob(JobHaul, nowTick)
			j.Item = item.ID
			j.From = d.Pos
			j.To = dest
			j.Priority = w.jobPriority()
			j.Designation = d.ID
			d.Job = j.ID
			w.consumeDesignation(d, nowTick)
			claimed[item.ID] = true
		}
	}

	if w.cfg.AutoJobs {
		w.generateAutoHaul(nowTick, claimed)
	}
}

// claimedHaulItems returns the items referenced by live haul jobs.
func (w *World) claimedHaulItems() map[string]bool {
	claimed := map[string]bool{}
	for _, j := range w.jobs {
		if j.Kind == JobHaul && j.Item != "" {
			claimed[j.Item] = true
		}
	}
	return claimed
}

func (w *World) consumeDesignation(d *Designation, nowTick uint64) {
	d.State = DesignationConsumed
	d.RetiredTick = nowTick
	w.event(protocol.Event{
		"type":        "DESIGNATION_CONSUMED",
		"designation": d.ID,
		"job":         d.Job,
	})
}

// jobPriority is 0 unless priority jitter is enabled, in which case a small
// deterministic offset is drawn from the job RNG stream.
func (w *World) jobPriority() int {
	if !w.cfg.JobPriorityJitter {
		return 0
	}
	return int(w.rng.Jobs.Uint64N(4))
}

// generateAutoHaul creates haul jobs for items resting outside any stockpile
// that no live job already claims. Items are visited in id order so repeated
// runs from the same state produce the same jobs.
func (w *World) generateAutoHaul(nowTick uint64, claimed map[string]bool) {
	ids := make([]string, 0, len(w.items))
	for id := range w.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		it := w.items[id]
		if it.CarriedBy != "" || claimed[id] || w.insideStockpile(it.Pos, it.Kind) {
			continue
		}
		dest, ok := w.nearestStockpileFor(it.Kind, it.Pos)
		if !ok {
			continue
		}
		j := w.newJob(JobHaul, nowTick)
		j.Item = id
		j.From = it.Pos
		j.To = dest
		j.Priority = w.jobPriority()
	}
}
