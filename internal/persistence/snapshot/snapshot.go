// Package snapshot defines the on-disk world snapshot: a zstd-compressed
// stream holding a JSON header line (for cheap inspection with zstdcat)
// followed by the gob-encoded full state.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
	Digest  string `json:"digest"`
}

// SnapshotV1 is the full resumable world state. Entity slices are written in
// id order; restoring and re-digesting must reproduce Header.Digest exactly.
type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed     int64 `json:"seed"`
	TickRate int   `json:"tick_rate_hz"`
	Width    int   `json:"width"`
	Height   int   `json:"height"`

	// Operational parameters captured for deterministic resume.
	PathCacheCapacity  int  `json:"path_cache_capacity,omitempty"`
	AutoJobs           bool `json:"auto_jobs,omitempty"`
	JobPriorityJitter  bool `json:"job_priority_jitter,omitempty"`
	SnapshotEveryTicks int  `json:"snapshot_every_ticks,omitempty"`
	VisionRadius       int  `json:"vision_radius,omitempty"`

	TilesRLE     string `json:"tiles_rle"`
	TilesVersion uint64 `json:"tiles_version"`

	Designations []DesignationV1 `json:"designations"`
	Jobs         []JobV1         `json:"jobs"`
	Workers      []WorkerV1      `json:"workers"`
	Items        []ItemV1        `json:"items"`
	Stockpiles   []StockpileV1   `json:"stockpiles"`

	RNG      map[string][]byte `json:"rng"`
	Counters CountersV1        `json:"counters"`
}

type CountersV1 struct {
	NextDesignation uint64 `json:"next_designation"`
	NextJob         uint64 `json:"next_job"`
	NextWorker      uint64 `json:"next_worker"`
	NextItem        uint64 `json:"next_item"`
	NextStockpile   uint64 `json:"next_stockpile"`
}

type DesignationV1 struct {
	ID          string `json:"id"`
	Seq         uint64 `json:"seq"`
	Pos         [2]int `json:"pos"`
	Kind        string `json:"kind"`
	State       string `json:"state"`
	CreatedTick uint64 `json:"created_tick"`
	RetiredTick uint64 `json:"retired_tick,omitempty"`
	Job         string `json:"job,omitempty"`
}

type JobV1 struct {
	ID          string `json:"id"`
	Seq         uint64 `json:"seq"`
	Kind        string `json:"kind"`
	Priority    int    `json:"priority"`
	Target      [2]int `json:"target"`
	Item        string `json:"item,omitempty"`
	From        [2]int `json:"from"`
	To          [2]int `json:"to"`
	Worker      string `json:"worker,omitempty"`
	Designation string `json:"designation,omitempty"`
	CreatedTick uint64 `json:"created_tick"`
}

type WorkerV1 struct {
	ID       string `json:"id"`
	Seq      uint64 `json:"seq"`
	Name     string `json:"name"`
	Pos      [2]int `json:"pos"`
	Caps     uint8  `json:"caps"`
	Job      string `json:"job,omitempty"`
	Carrying string `json:"carrying,omitempty"`
}

type ItemV1 struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Pos       [2]int `json:"pos"`
	CarriedBy string `json:"carried_by,omitempty"`
}

type StockpileV1 struct {
	ID      string   `json:"id"`
	Seq     uint64   `json:"seq"`
	Min     [2]int   `json:"min"`
	Max     [2]int   `json:"max"`
	Accepts []string `json:"accepts"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; gob carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
