package world

import (
	"testing"

	"goblincamp/internal/protocol"
)

func TestDesignationDuplicateKeepsEarliest(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.tiles.Set(Vec2{3, 3}, TileWall)

	w.StepOnce([]Command{
		cmdDesignate("MINE", 3, 3),
		cmdDesignate("MINE", 3, 3),
	})

	ds := w.Designations()
	if len(ds) != 2 {
		t.Fatalf("want 2 designations, got %d", len(ds))
	}
	first, second := ds[0], ds[1]
	if first.Seq > second.Seq {
		first, second = second, first
	}
	if first.State != DesignationConsumed {
		t.Fatalf("earliest designation should be consumed, got %s", first.State)
	}
	if first.Job == "" {
		t.Fatalf("earliest designation should carry its job id")
	}
	if second.State != DesignationCancelled {
		t.Fatalf("duplicate should be cancelled, got %s", second.State)
	}
	if got := eventReason(w, "DESIGNATION_CANCELLED"); got != protocol.ErrConflict {
		t.Fatalf("duplicate cancel reason: want %s, got %q", protocol.ErrConflict, got)
	}

	jobs := w.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("duplicate designations must yield exactly one job, got %d", len(jobs))
	}
	if jobs[0].Designation != first.ID {
		t.Fatalf("job should reference surviving designation %s, got %s", first.ID, jobs[0].Designation)
	}
}

func TestDesignationInvalidTargetCancelled(t *testing.T) {
	w := newFlatWorld(t, 9, 9)

	// (4,4) is floor; nothing to mine there.
	w.StepOnce([]Command{cmdDesignate("MINE", 4, 4)})

	ds := w.Designations()
	if len(ds) != 1 {
		t.Fatalf("want 1 designation, got %d", len(ds))
	}
	if ds[0].State != DesignationCancelled {
		t.Fatalf("invalid target should cancel, got %s", ds[0].State)
	}
	if got := eventReason(w, "DESIGNATION_CANCELLED"); got != protocol.ErrInvalidTarget {
		t.Fatalf("cancel reason: want %s, got %q", protocol.ErrInvalidTarget, got)
	}
	if len(w.Jobs()) != 0 {
		t.Fatalf("invalid designation must not generate a job")
	}
}

func TestDesignationCancelWhileQueued(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.spawnItem(ItemStone, Vec2{2, 2})

	// No stockpile: the haul designation queues and waits.
	w.StepOnce([]Command{cmdDesignate("HAUL", 2, 2)})
	ds := w.Designations()
	if len(ds) != 1 || ds[0].State != DesignationQueued {
		t.Fatalf("haul designation should wait queued, got %+v", ds)
	}

	w.StepOnce([]Command{cmdCancel(ds[0].ID)})
	got, ok := w.DesignationByID(ds[0].ID)
	if !ok || got.State != DesignationCancelled {
		t.Fatalf("cancel should move queued designation to cancelled, got %+v", got)
	}

	// Cancelling again is stale, not an error.
	w.StepOnce([]Command{cmdCancel(ds[0].ID)})
	if got := eventReason(w, "COMMAND_REJECTED"); got != protocol.ErrStale {
		t.Fatalf("second cancel should reject with %s, got %q", protocol.ErrStale, got)
	}
}

func TestCancelAfterConsumptionLeavesJobAlone(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.tiles.Set(Vec2{3, 3}, TileWall)

	w.StepOnce([]Command{cmdDesignate("MINE", 3, 3)})
	ds := w.Designations()
	if len(ds) != 1 || ds[0].State != DesignationConsumed {
		t.Fatalf("designation should be consumed at job creation, got %+v", ds)
	}
	if len(w.Jobs()) != 1 {
		t.Fatalf("want one mine job")
	}

	// Consumption is final: a late cancel is stale and the job runs on.
	w.StepOnce([]Command{cmdCancel(ds[0].ID)})
	if got := eventReason(w, "COMMAND_REJECTED"); got != protocol.ErrStale {
		t.Fatalf("cancel of a consumed designation should reject with %s, got %q", protocol.ErrStale, got)
	}
	if len(w.Jobs()) != 1 {
		t.Fatalf("the generated job must survive the stale cancel")
	}
}

func TestTerminalDesignationsPurgedNextTick(t *testing.T) {
	w := newFlatWorld(t, 9, 9)

	w.StepOnce([]Command{cmdDesignate("MINE", 4, 4)}) // floor, cancels
	if len(w.Designations()) != 1 {
		t.Fatalf("cancelled designation should stay observable within its tick")
	}
	w.StepOnce(nil)
	if len(w.Designations()) != 0 {
		t.Fatalf("cancelled designation should be purged on the next tick")
	}
}

func TestHaulGenerationWaitsForStockpile(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.spawnItem(ItemStone, Vec2{2, 0})
	w.StepOnce([]Command{
		cmdSpawnWorker("g1", 0, 0, "HAUL"),
		cmdDesignate("HAUL", 2, 0),
	})

	var dID string
	for i := 0; i < 10; i++ {
		ds := w.Designations()
		if len(ds) != 1 || ds[0].State != DesignationQueued {
			t.Fatalf("tick %d: designation should still be queued, got %+v", i, ds)
		}
		dID = ds[0].ID
		if n := len(w.Jobs()); n != 0 {
			t.Fatalf("tick %d: no job should exist before a stockpile, got %d", i, n)
		}
		w.StepOnce(nil)
	}

	w.StepOnce([]Command{cmdAddStockpile(7, 7, 8, 8, ItemStone)})

	d, _ := w.DesignationByID(dID)
	if d.State != DesignationConsumed {
		t.Fatalf("designation should be consumed once a stockpile exists, got %s", d.State)
	}
	jobs := w.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("want exactly one haul job, got %d", len(jobs))
	}
	if jobs[0].Worker == "" {
		t.Fatalf("job should be assigned the same tick it is generated")
	}
	if jobs[0].To != (Vec2{7, 7}) {
		t.Fatalf("haul destination should be nearest stockpile tile, got %v", jobs[0].To)
	}
}
