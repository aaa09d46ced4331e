package world

// step runs one simulation tick. The pass order is fixed: commands, dedup,
// job generation, assignment, executors (mine then haul), cleanup,
// observation, journal, snapshot. Reordering any of these changes digests.
func (w *World) step(pending []Command) {
	nowTick := w.tick.Load() + 1

	w.events = w.events[:0]

	w.applyCommands(pending, nowTick)
	w.dedupPass(nowTick)
	w.generateJobs(nowTick)
	w.assignPass()
	w.executeMine(nowTick)
	w.executeHaul(nowTick)
	w.cleanupPass(nowTick)

	w.broadcastObs(nowTick)

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		entry := TickLogEntry{Tick: nowTick, Digest: digest}
		for _, cmd := range pending {
			entry.Commands = append(entry.Commands, cmd.Req)
		}
		_ = w.tickLogger.WriteTick(entry)
	}

	if w.snapshotSink != nil && w.cfg.SnapshotEveryTicks > 0 && nowTick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
		select {
		case w.snapshotSink <- w.Export(nowTick, digest):
		default:
			// Sink backed up; skip rather than stall the loop.
		}
	}

	w.tick.Store(nowTick)
}

// StepOnce applies a command batch and advances exactly one tick. It exists
// for tests and the replay tool, which drive the loop directly instead of
// through Run's ticker.
func (w *World) StepOnce(pending []Command) {
	w.step(pending)
}
