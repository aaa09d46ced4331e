package world

import "testing"

func TestAssignmentPrefersHigherPriorityThenOlder(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	wk := w.spawnWorker("solo", Vec2{0, 0}, CapMine)

	j1 := w.newJob(JobMine, 1)
	j1.Target = Vec2{3, 0}
	j2 := w.newJob(JobMine, 1)
	j2.Target = Vec2{0, 3}
	j2.Priority = 5

	w.assignPass()

	if j2.Worker != wk.ID {
		t.Fatalf("higher priority job should win, got worker %q", j2.Worker)
	}
	if j1.Worker != "" {
		t.Fatalf("lower priority job should stay queued")
	}

	// Same priority falls back to submission order.
	w2 := newFlatWorld(t, 9, 9)
	wk2 := w2.spawnWorker("solo", Vec2{0, 0}, CapMine)
	a := w2.newJob(JobMine, 1)
	b := w2.newJob(JobMine, 1)
	w2.assignPass()
	if a.Worker != wk2.ID || b.Worker != "" {
		t.Fatalf("equal priority should assign the older job first")
	}
}

func TestAssignmentIdempotentWithinTick(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.spawnWorker("g1", Vec2{0, 0}, CapMine|CapHaul)
	w.spawnWorker("g2", Vec2{1, 0}, CapMine)
	j := w.newJob(JobMine, 1)
	j.Target = Vec2{4, 4}

	w.assignPass()
	first := j.Worker
	if first == "" {
		t.Fatalf("job should be assigned")
	}
	w.assignPass()
	if j.Worker != first {
		t.Fatalf("second pass reassigned the job: %s -> %s", first, j.Worker)
	}
}

func TestAssignmentWorkersInSpawnOrder(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	g1 := w.spawnWorker("g1", Vec2{0, 0}, CapMine)
	g2 := w.spawnWorker("g2", Vec2{1, 0}, CapMine)
	j1 := w.newJob(JobMine, 1)
	j2 := w.newJob(JobMine, 1)

	w.assignPass()

	if j1.Worker != g1.ID {
		t.Fatalf("oldest job should get oldest worker, got %s", j1.Worker)
	}
	if j2.Worker != g2.ID {
		t.Fatalf("second job should get second worker, got %s", j2.Worker)
	}
}

func TestAssignmentNoCapableWorkerLeavesJobQueued(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.spawnWorker("porter", Vec2{0, 0}, CapHaul)
	j := w.newJob(JobMine, 1)

	w.assignPass()
	if j.Worker != "" {
		t.Fatalf("haul-only worker must not take a mine job")
	}
}
