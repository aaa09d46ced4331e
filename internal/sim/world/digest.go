package world

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"goblincamp/internal/sim/encoding"
)

// digestState is the canonical serialization hashed each tick. Entities are
// emitted in id order and tiles as RLE, so two worlds with equal state
// always produce equal digests.
type digestState struct {
	Tick         uint64            `json:"tick"`
	Seed         int64             `json:"seed"`
	TilesVersion uint64            `json:"tiles_version"`
	TilesRLE     string            `json:"tiles_rle"`
	Designations []*Designation    `json:"designations"`
	Jobs         []*Job            `json:"jobs"`
	Workers      []*Worker         `json:"workers"`
	Items        []*Item           `json:"items"`
	Stockpiles   []*Stockpile      `json:"stockpiles"`
	Counters     map[string]uint64 `json:"counters"`
	RNG          map[string]string `json:"rng"`
}

func (w *World) stateDigest(nowTick uint64) string {
	st := digestState{
		Tick:         nowTick,
		Seed:         w.cfg.Seed,
		TilesVersion: w.tiles.Version(),
		TilesRLE:     encoding.EncodeRLE(tileBytes(w.tiles.Kinds())),
		Designations: sortedByID(w.designations),
		Jobs:         sortedByID(w.jobs),
		Workers:      sortedByID(w.workers),
		Items:        sortedByID(w.items),
		Stockpiles:   sortedByID(w.stockpiles),
		Counters:     w.counters(),
		RNG:          map[string]string{},
	}
	rngState, err := w.rng.ExportState()
	if err != nil {
		panic(fmt.Sprintf("world: digest rng export: %v", err))
	}
	for name, blob := range rngState {
		st.RNG[name] = hex.EncodeToString(blob)
	}

	raw, err := json.Marshal(st)
	if err != nil {
		panic(fmt.Sprintf("world: digest marshal: %v", err))
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (w *World) counters() map[string]uint64 {
	return map[string]uint64{
		"designation": w.nextDesignationNum.Load(),
		"job":         w.nextJobNum.Load(),
		"worker":      w.nextWorkerNum.Load(),
		"item":        w.nextItemNum.Load(),
		"stockpile":   w.nextStockpileNum.Load(),
	}
}

func tileBytes(kinds []TileKind) []uint8 {
	out := make([]uint8, len(kinds))
	for i, k := range kinds {
		out[i] = uint8(k)
	}
	return out
}

func sortedByID[T any](m map[string]*T) []*T {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*T, len(ids))
	for i, id := range ids {
		out[i] = m[id]
	}
	return out
}

// Digest recomputes the digest for the current tick. Exposed for the replay
// verifier and determinism tests.
func (w *World) Digest() string {
	return w.stateDigest(w.tick.Load())
}
