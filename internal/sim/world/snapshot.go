package world

import (
	"fmt"
	"sort"

	"goblincamp/internal/persistence/snapshot"
	"goblincamp/internal/sim/encoding"
	"goblincamp/internal/sim/path"
)

const snapshotVersion = 1

// Export captures the complete resumable state at the end of a tick.
func (w *World) Export(nowTick uint64, digest string) snapshot.SnapshotV1 {
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshotVersion,
			WorldID: w.cfg.ID,
			Tick:    nowTick,
			Digest:  digest,
		},
		Seed:     w.cfg.Seed,
		TickRate: w.cfg.TickRateHz,
		Width:    w.cfg.Width,
		Height:   w.cfg.Height,

		PathCacheCapacity:  w.cfg.PathCacheCapacity,
		AutoJobs:           w.cfg.AutoJobs,
		JobPriorityJitter:  w.cfg.JobPriorityJitter,
		SnapshotEveryTicks: w.cfg.SnapshotEveryTicks,
		VisionRadius:       w.cfg.VisionRadius,

		TilesRLE:     encoding.EncodeRLE(tileBytes(w.tiles.Kinds())),
		TilesVersion: w.tiles.Version(),

		Counters: snapshot.CountersV1{
			NextDesignation: w.nextDesignationNum.Load(),
			NextJob:         w.nextJobNum.Load(),
			NextWorker:      w.nextWorkerNum.Load(),
			NextItem:        w.nextItemNum.Load(),
			NextStockpile:   w.nextStockpileNum.Load(),
		},
	}

	rng, err := w.rng.ExportState()
	if err != nil {
		panic(fmt.Sprintf("world: snapshot rng export: %v", err))
	}
	snap.RNG = rng

	for _, d := range sortedByID(w.designations) {
		snap.Designations = append(snap.Designations, snapshot.DesignationV1{
			ID:          d.ID,
			Seq:         d.Seq,
			Pos:         [2]int{d.Pos.X, d.Pos.Y},
			Kind:        string(d.Kind),
			State:       string(d.State),
			CreatedTick: d.CreatedTick,
			RetiredTick: d.RetiredTick,
			Job:         d.Job,
		})
	}
	for _, j := range sortedByID(w.jobs) {
		snap.Jobs = append(snap.Jobs, snapshot.JobV1{
			ID:          j.ID,
			Seq:         j.Seq,
			Kind:        string(j.Kind),
			Priority:    j.Priority,
			Target:      [2]int{j.Target.X, j.Target.Y},
			Item:        j.Item,
			From:        [2]int{j.From.X, j.From.Y},
			To:          [2]int{j.To.X, j.To.Y},
			Worker:      j.Worker,
			Designation: j.Designation,
			CreatedTick: j.CreatedTick,
		})
	}
	for _, wk := range sortedByID(w.workers) {
		snap.Workers = append(snap.Workers, snapshot.WorkerV1{
			ID:       wk.ID,
			Seq:      wk.Seq,
			Name:     wk.Name,
			Pos:      [2]int{wk.Pos.X, wk.Pos.Y},
			Caps:     uint8(wk.Caps),
			Job:      wk.Job,
			Carrying: wk.Carrying,
		})
	}
	for _, it := range sortedByID(w.items) {
		snap.Items = append(snap.Items, snapshot.ItemV1{
			ID:        it.ID,
			Kind:      it.Kind,
			Pos:       [2]int{it.Pos.X, it.Pos.Y},
			CarriedBy: it.CarriedBy,
		})
	}
	for _, s := range sortedByID(w.stockpiles) {
		snap.Stockpiles = append(snap.Stockpiles, snapshot.StockpileV1{
			ID:      s.ID,
			Seq:     s.Seq,
			Min:     [2]int{s.Min.X, s.Min.Y},
			Max:     [2]int{s.Max.X, s.Max.Y},
			Accepts: append([]string(nil), s.Accepts...),
		})
	}
	return snap
}

// Restore rebuilds a world from a snapshot. The terrain comes from the
// snapshot, not from mapgen, so the RNG streams resume exactly where the
// exporting world left them.
func Restore(snap snapshot.SnapshotV1) (*World, error) {
	if snap.Header.Version != snapshotVersion {
		return nil, fmt.Errorf("world: snapshot version %d unsupported", snap.Header.Version)
	}

	cfg := WorldConfig{
		ID:                 snap.Header.WorldID,
		TickRateHz:         snap.TickRate,
		Width:              snap.Width,
		Height:             snap.Height,
		Seed:               snap.Seed,
		PathCacheCapacity:  snap.PathCacheCapacity,
		AutoJobs:           snap.AutoJobs,
		JobPriorityJitter:  snap.JobPriorityJitter,
		SnapshotEveryTicks: snap.SnapshotEveryTicks,
		VisionRadius:       snap.VisionRadius,
	}

	w, err := New(cfg)
	if err != nil {
		return nil, err
	}

	raw, err := encoding.DecodeRLE(snap.TilesRLE)
	if err != nil {
		return nil, fmt.Errorf("world: snapshot tiles: %w", err)
	}
	if len(raw) != snap.Width*snap.Height {
		return nil, fmt.Errorf("world: snapshot tiles: got %d cells, want %d", len(raw), snap.Width*snap.Height)
	}
	kinds := make([]TileKind, len(raw))
	for i, b := range raw {
		kinds[i] = TileKind(b)
	}
	w.tiles.restore(kinds, snap.TilesVersion)
	w.paths = path.NewService(w.tiles, cfg.PathCacheCapacity)

	if err := w.rng.ImportState(snap.RNG); err != nil {
		return nil, fmt.Errorf("world: snapshot rng: %w", err)
	}

	for _, d := range snap.Designations {
		w.designations[d.ID] = &Designation{
			ID:          d.ID,
			Seq:         d.Seq,
			Pos:         Vec2{d.Pos[0], d.Pos[1]},
			Kind:        DesignationKind(d.Kind),
			State:       DesignationState(d.State),
			CreatedTick: d.CreatedTick,
			RetiredTick: d.RetiredTick,
			Job:         d.Job,
		}
	}
	for _, j := range snap.Jobs {
		w.jobs[j.ID] = &Job{
			ID:          j.ID,
			Seq:         j.Seq,
			Kind:        JobKind(j.Kind),
			Priority:    j.Priority,
			Target:      Vec2{j.Target[0], j.Target[1]},
			Item:        j.Item,
			From:        Vec2{j.From[0], j.From[1]},
			To:          Vec2{j.To[0], j.To[1]},
			Worker:      j.Worker,
			Designation: j.Designation,
			CreatedTick: j.CreatedTick,
		}
	}
	for _, wk := range snap.Workers {
		w.workers[wk.ID] = &Worker{
			ID:       wk.ID,
			Seq:      wk.Seq,
			Name:     wk.Name,
			Pos:      Vec2{wk.Pos[0], wk.Pos[1]},
			Caps:     Capability(wk.Caps),
			Job:      wk.Job,
			Carrying: wk.Carrying,
		}
	}
	for _, it := range snap.Items {
		item := &Item{
			ID:        it.ID,
			Kind:      it.Kind,
			Pos:       Vec2{it.Pos[0], it.Pos[1]},
			CarriedBy: it.CarriedBy,
		}
		w.items[item.ID] = item
		if item.CarriedBy == "" {
			w.itemsAt[item.Pos] = append(w.itemsAt[item.Pos], item.ID)
		}
	}
	for pos := range w.itemsAt {
		sort.Strings(w.itemsAt[pos])
	}
	for _, s := range snap.Stockpiles {
		w.stockpiles[s.ID] = &Stockpile{
			ID:      s.ID,
			Seq:     s.Seq,
			Min:     Vec2{s.Min[0], s.Min[1]},
			Max:     Vec2{s.Max[0], s.Max[1]},
			Accepts: append([]string(nil), s.Accepts...),
		}
	}

	w.nextDesignationNum.Store(snap.Counters.NextDesignation)
	w.nextJobNum.Store(snap.Counters.NextJob)
	w.nextWorkerNum.Store(snap.Counters.NextWorker)
	w.nextItemNum.Store(snap.Counters.NextItem)
	w.nextStockpileNum.Store(snap.Counters.NextStockpile)
	w.tick.Store(snap.Header.Tick)

	return w, nil
}
