package world

import (
	"fmt"
	"sort"

	"goblincamp/internal/protocol"
)

type DesignationKind string

const (
	DesignationMine DesignationKind = "MINE"
	DesignationHaul DesignationKind = "HAUL"
)

type DesignationState string

const (
	DesignationNew       DesignationState = "NEW"
	DesignationQueued    DesignationState = "QUEUED"
	DesignationAssigned  DesignationState = "ASSIGNED"
	DesignationConsumed  DesignationState = "CONSUMED"
	DesignationCancelled DesignationState = "CANCELLED"
)

// terminal designations are kept observable for the remainder of the tick
// that retired them, then purged by cleanupPass.
func (s DesignationState) terminal() bool {
	return s == DesignationConsumed || s == DesignationCancelled
}

type Designation struct {
	ID          string           `json:"id"`
	Seq         uint64           `json:"seq"`
	Pos         Vec2             `json:"pos"`
	Kind        DesignationKind  `json:"kind"`
	State       DesignationState `json:"state"`
	CreatedTick uint64           `json:"created_tick"`
	RetiredTick uint64           `json:"retired_tick,omitempty"`
	// Job is set once a job has been generated from this designation.
	Job string `json:"job,omitempty"`
}

func (w *World) newDesignation(pos Vec2, kind DesignationKind, nowTick uint64) *Designation {
	seq := w.nextDesignationNum.Add(1)
	d := &Designation{
		ID:          fmt.Sprintf("D%06d", seq),
		Seq:         seq,
		Pos:         pos,
		Kind:        kind,
		State:       DesignationNew,
		CreatedTick: nowTick,
	}
	w.designations[d.ID] = d
	return d
}

// cancelDesignation moves any non-terminal designation to CANCELLED. A
// designation that produced a job is already CONSUMED, so cancellation never
// has a job to tear down; cancelling the work itself means cancelling the
// job, which is the executors' territory.
func (w *World) cancelDesignation(d *Designation, reason string, nowTick uint64) {
	if d.State.terminal() {
		return
	}
	d.State = DesignationCancelled
	d.RetiredTick = nowTick
	w.event(protocol.Event{
		"type":        "DESIGNATION_CANCELLED",
		"designation": d.ID,
		"reason":      reason,
	})
}

// validTarget reports whether the designation still points at something its
// kind can act on: MINE needs a wall tile, HAUL needs a resting item.
func (w *World) validTarget(d *Designation) bool {
	switch d.Kind {
	case DesignationMine:
		return w.tiles.Get(d.Pos) == TileWall
	case DesignationHaul:
		return len(w.restingItemsAt(d.Pos)) > 0
	default:
		return false
	}
}

// dedupPass promotes NEW designations to QUEUED, cancelling duplicates and
// invalid targets. Among duplicates at the same (pos, kind) the earliest
// submission survives; everything else is cancelled with E_CONFLICT.
func (w *World) dedupPass(nowTick uint64) {
	type slot struct {
		pos  Vec2
		kind DesignationKind
	}

	fresh := make([]*Designation, 0, len(w.designations))
	for _, d := range w.designations {
		if d.State == DesignationNew {
			fresh = append(fresh, d)
		}
	}
	sort.Slice(fresh, func(i, j int) bool { return fresh[i].Seq < fresh[j].Seq })

	// Earliest live designation per slot wins, including ones queued or
	// assigned on earlier ticks.
	claimed := map[slot]uint64{}
	for _, d := range w.designations {
		if d.State.terminal() || d.State == DesignationNew {
			continue
		}
		key := slot{d.Pos, d.Kind}
		if cur, ok := claimed[key]; !ok || d.Seq < cur {
			claimed[key] = d.Seq
		}
	}

	for _, d := range fresh {
		if !w.validTarget(d) {
			w.cancelDesignation(d, protocol.ErrInvalidTarget, nowTick)
			continue
		}
		key := slot{d.Pos, d.Kind}
		if _, taken := claimed[key]; taken {
			w.cancelDesignation(d, protocol.ErrConflict, nowTick)
			continue
		}
		claimed[key] = d.Seq
		d.State = DesignationQueued
	}
}

// cleanupPass purges designations that went terminal on an earlier tick.
// Ones retired during the current tick stay visible so the OBS closing this
// tick can still report them. Also runs the structural invariant checks.
func (w *World) cleanupPass(nowTick uint64) {
	for id, d := range w.designations {
		if d.State.terminal() && d.RetiredTick < nowTick {
			delete(w.designations, id)
		}
	}
	w.checkInvariants()
}
