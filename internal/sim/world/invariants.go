package world

import "fmt"

// checkInvariants verifies the structural invariants the passes must
// preserve: at most one live designation per (pos, kind), worker/job links
// mutual, every item either carried or resting exactly once. Violations
// panic under StrictInvariants and are ignored otherwise; they indicate a
// pass bug, not bad input.
func (w *World) checkInvariants() {
	if !w.cfg.StrictInvariants {
		return
	}

	type slot struct {
		pos  Vec2
		kind DesignationKind
	}
	live := map[slot]string{}
	for _, d := range w.designations {
		if d.State.terminal() || d.State == DesignationNew {
			continue
		}
		key := slot{d.Pos, d.Kind}
		if prev, dup := live[key]; dup {
			panic(fmt.Sprintf("world: duplicate live designations %s and %s at %v/%s", prev, d.ID, d.Pos, d.Kind))
		}
		live[key] = d.ID
	}

	for _, j := range w.jobs {
		if j.Worker == "" {
			continue
		}
		wk, ok := w.workers[j.Worker]
		if !ok || wk.Job != j.ID {
			panic(fmt.Sprintf("world: job %s claims worker %s but link is not mutual", j.ID, j.Worker))
		}
	}
	for _, wk := range w.workers {
		if wk.Job == "" {
			continue
		}
		j, ok := w.jobs[wk.Job]
		if !ok || j.Worker != wk.ID {
			panic(fmt.Sprintf("world: worker %s claims job %s but link is not mutual", wk.ID, wk.Job))
		}
	}

	for _, it := range w.items {
		if it.CarriedBy != "" {
			wk, ok := w.workers[it.CarriedBy]
			if !ok || wk.Carrying != it.ID {
				panic(fmt.Sprintf("world: item %s carried by %s but link is not mutual", it.ID, it.CarriedBy))
			}
			continue
		}
		found := false
		for _, id := range w.itemsAt[it.Pos] {
			if id == it.ID {
				found = true
				break
			}
		}
		if !found {
			panic(fmt.Sprintf("world: resting item %s missing from ground index at %v", it.ID, it.Pos))
		}
	}
}
