package world

import "testing"

func TestHaulPickupCarryDeposit(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	stone := w.spawnItem(ItemStone, Vec2{2, 0})

	w.StepOnce([]Command{
		cmdAddStockpile(0, 0, 0, 0, ItemStone),
		cmdSpawnWorker("porter", 0, 0, "HAUL"),
		cmdDesignate("HAUL", 2, 0),
	})

	jobs := w.Jobs()
	if len(jobs) != 1 || jobs[0].Kind != JobHaul {
		t.Fatalf("want one haul job, got %+v", jobs)
	}
	if jobs[0].Item != stone.ID {
		t.Fatalf("haul job should claim the resting item")
	}
	if jobs[0].To != (Vec2{0, 0}) {
		t.Fatalf("haul destination should be the stockpile tile, got %v", jobs[0].To)
	}

	// Tick 1 walked toward the item. Tick 2 arrives and picks up.
	w.StepOnce(nil)
	it, _ := w.ItemByID(stone.ID)
	wk := w.Workers()[0]
	if it.CarriedBy != wk.ID || wk.Carrying != stone.ID {
		t.Fatalf("worker should be carrying after arrival: item=%+v worker=%+v", it, wk)
	}
	if wk.Pos != (Vec2{2, 0}) {
		t.Fatalf("worker should stand on the item tile, got %v", wk.Pos)
	}

	// Two more ticks walk back; arrival deposits.
	w.StepOnce(nil)
	w.StepOnce(nil)

	it, _ = w.ItemByID(stone.ID)
	if it.CarriedBy != "" || it.Pos != (Vec2{0, 0}) {
		t.Fatalf("item should rest on the stockpile tile, got %+v", it)
	}
	if !w.insideStockpile(it.Pos, it.Kind) {
		t.Fatalf("deposited item should be inside an accepting stockpile")
	}
	if len(w.Jobs()) != 0 {
		t.Fatalf("haul job should be gone after deposit")
	}
	if got := w.Workers()[0]; got.Job != "" || got.Carrying != "" {
		t.Fatalf("worker should be idle and empty-handed, got %+v", got)
	}
}

func TestHaulCarriedItemTracksWorker(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	stone := w.spawnItem(ItemStone, Vec2{4, 0})

	w.StepOnce([]Command{
		cmdAddStockpile(0, 0, 0, 0, ItemStone),
		cmdSpawnWorker("porter", 4, 0, "HAUL"),
		cmdDesignate("HAUL", 4, 0),
	})

	// Worker starts on the item: pickup on tick 1.
	wk := w.Workers()[0]
	if wk.Carrying != stone.ID {
		t.Fatalf("worker on the item tile should pick up immediately, got %+v", wk)
	}

	w.StepOnce(nil)
	it, _ := w.ItemByID(stone.ID)
	wk = w.Workers()[0]
	if it.Pos != wk.Pos {
		t.Fatalf("carried item should move with its worker: item at %v, worker at %v", it.Pos, wk.Pos)
	}
}

func TestHaulItemGoneCancelsJob(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	stone := w.spawnItem(ItemStone, Vec2{5, 5})

	w.StepOnce([]Command{
		cmdAddStockpile(0, 0, 0, 0, ItemStone),
		cmdSpawnWorker("porter", 0, 0, "HAUL"),
		cmdDesignate("HAUL", 5, 5),
	})
	if len(w.Jobs()) != 1 {
		t.Fatalf("want one haul job")
	}

	// The item vanishes out from under the job.
	w.removeFromGround(w.items[stone.ID])
	delete(w.items, stone.ID)

	w.StepOnce(nil)
	if len(w.Jobs()) != 0 {
		t.Fatalf("job for a missing item should be cancelled")
	}
	if !hasEvent(w, "JOB_CANCELLED") {
		t.Fatalf("expected JOB_CANCELLED event")
	}
	if got := w.Workers()[0]; got.Job != "" {
		t.Fatalf("worker should be released, got %+v", got)
	}
}

func TestHaulUnreachableDestinationReleasesAndDropsItem(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	stone := w.spawnItem(ItemStone, Vec2{4, 0})

	w.StepOnce([]Command{
		cmdAddStockpile(0, 0, 0, 0, ItemStone),
		cmdSpawnWorker("porter", 4, 0, "HAUL"),
		cmdDesignate("HAUL", 4, 0),
	})

	// Worker starts on the item, so tick 1 picked it up.
	if wk := w.Workers()[0]; wk.Carrying != stone.ID {
		t.Fatalf("worker should be carrying after tick 1, got %+v", wk)
	}

	// Seal the stockpile corner before the carry leg starts.
	w.tiles.Set(Vec2{1, 0}, TileWall)
	w.tiles.Set(Vec2{0, 1}, TileWall)

	w.StepOnce(nil)
	if !hasEvent(w, "JOB_BLOCKED") {
		t.Fatalf("expected JOB_BLOCKED for the sealed destination")
	}
	if got := eventReason(w, "JOB_BLOCKED"); got != "E_NO_PATH" {
		t.Fatalf("want E_NO_PATH, got %q", got)
	}

	jobs := w.Jobs()
	if len(jobs) != 1 || jobs[0].Worker != "" {
		t.Fatalf("job should survive unassigned, got %+v", jobs)
	}
	wk := w.Workers()[0]
	if wk.Job != "" || wk.Carrying != "" {
		t.Fatalf("released worker should be idle and empty-handed, got %+v", wk)
	}
	it, _ := w.ItemByID(stone.ID)
	if it.CarriedBy != "" || it.Pos != wk.Pos {
		t.Fatalf("dropped item should rest where the worker stands, got %+v", it)
	}
	found := false
	for _, id := range w.restingItemsAt(wk.Pos) {
		if id == stone.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("dropped item missing from the ground index at %v", wk.Pos)
	}
}

func TestHaulWrongCarriedItemReleasesJob(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	wk := w.spawnWorker("porter", Vec2{0, 0}, CapHaul)
	held := w.spawnItem(ItemStone, Vec2{0, 0})
	w.pickUp(wk, held)
	target := w.spawnItem(ItemStone, Vec2{2, 0})

	j := w.newJob(JobHaul, 0)
	j.Item = target.ID
	j.From = target.Pos
	j.To = Vec2{1, 0}
	j.Worker = wk.ID
	wk.Job = j.ID

	w.executeHaul(1)

	if j.Worker != "" || wk.Job != "" {
		t.Fatalf("job carrying a foreign item should be released, job=%+v worker=%+v", j, wk)
	}
	if _, ok := w.jobs[j.ID]; !ok {
		t.Fatalf("released job should stay in the registry")
	}
	if got := eventReason(w, "JOB_BLOCKED"); got != "E_CONFLICT" {
		t.Fatalf("want E_CONFLICT release, got %q", got)
	}
	if wk.Carrying != "" || held.CarriedBy != "" || held.Pos != wk.Pos {
		t.Fatalf("foreign item should be put down at the worker, item=%+v worker=%+v", held, wk)
	}
	if target.Pos != (Vec2{2, 0}) || target.CarriedBy != "" {
		t.Fatalf("the job's own item must not move, got %+v", target)
	}
}

func TestHaulDesignationSkipsItemClaimedByAutoHaul(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.cfg.AutoJobs = true
	stone := w.spawnItem(ItemStone, Vec2{3, 3})

	w.StepOnce([]Command{cmdAddStockpile(0, 0, 0, 0, ItemStone)})
	if got := len(w.Jobs()); got != 1 {
		t.Fatalf("auto-haul should claim the loose item, got %d jobs", got)
	}

	w.StepOnce([]Command{cmdDesignate("HAUL", 3, 3)})
	if got := len(w.Jobs()); got != 1 {
		t.Fatalf("claimed item must not get a second job, got %d", got)
	}
	ds := w.Designations()
	if len(ds) != 1 || ds[0].State != DesignationQueued {
		t.Fatalf("designation over a claimed item should wait queued, got %+v", ds)
	}
	if got := w.Jobs()[0]; got.Item != stone.ID {
		t.Fatalf("the surviving job should be the original claim on %s, got %+v", stone.ID, got)
	}
}

func TestAutoHaulGeneratesJobsForLooseItems(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.cfg.AutoJobs = true
	w.spawnItem(ItemStone, Vec2{3, 3})
	w.spawnItem(ItemStone, Vec2{6, 6})

	w.StepOnce([]Command{cmdAddStockpile(0, 0, 1, 1, ItemStone)})

	jobs := w.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("auto-haul should claim each loose item once, got %d jobs", len(jobs))
	}
	seen := map[string]bool{}
	for _, j := range jobs {
		if j.Kind != JobHaul {
			t.Fatalf("auto jobs should be hauls, got %s", j.Kind)
		}
		if seen[j.Item] {
			t.Fatalf("item %s claimed twice", j.Item)
		}
		seen[j.Item] = true
	}

	// Re-running generation must not double-claim.
	w.StepOnce(nil)
	if got := len(w.Jobs()); got != 2 {
		t.Fatalf("auto-haul ran again and duplicated jobs: %d", got)
	}
}

func TestAutoHaulSkipsItemsAlreadyStockpiled(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.cfg.AutoJobs = true
	w.spawnItem(ItemStone, Vec2{0, 0})

	w.StepOnce([]Command{cmdAddStockpile(0, 0, 1, 1, ItemStone)})
	if got := len(w.Jobs()); got != 0 {
		t.Fatalf("item already inside a stockpile needs no haul, got %d jobs", got)
	}
}
