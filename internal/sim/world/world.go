// Package world implements the deterministic scheduling core: designation
// lifecycle, job generation, capability-based assignment, per-kind task
// executors and the fixed-order tick that drives them.
//
// World is a single-threaded authoritative simulation. All state must be
// accessed only from the world loop goroutine; external callers talk to it
// through channels, and everything they send is applied at the next tick
// boundary, in arrival order. Given the same seed and command sequence the
// resulting state is bit-for-bit reproducible.
package world

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"goblincamp/internal/persistence/snapshot"
	"goblincamp/internal/protocol"
	"goblincamp/internal/sim/path"
)

type WorldConfig struct {
	ID         string
	TickRateHz int
	Width      int
	Height     int
	Seed       int64

	PathCacheCapacity  int
	AutoJobs           bool
	JobPriorityJitter  bool
	SnapshotEveryTicks int
	VisionRadius       int

	// StrictInvariants makes structural invariant violations panic instead of
	// being silently carried forward. Tests run with it on; a violation is a
	// core defect, never a recoverable runtime condition.
	StrictInvariants bool
}

// Command is one external mutation request, applied at the tick boundary.
type Command struct {
	ClientID string
	Req      protocol.CommandReq
}

type AttachRequest struct {
	Name string
	Out  chan []byte
	Resp chan AttachResponse
}

type AttachResponse struct {
	Welcome protocol.WelcomeMsg
}

type clientState struct {
	Out chan []byte
}

// TickLogger records one entry per tick: the commands that entered the core
// and the digest of the state they produced. Implementations must be cheap;
// they run on the loop goroutine.
type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// AuditLogger records individual world mutations (tile changes, item spawns).
type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	Tick     uint64               `json:"tick"`
	Commands []protocol.CommandReq `json:"commands,omitempty"`
	Digest   string               `json:"digest"`
}

type AuditEntry struct {
	Tick   uint64 `json:"tick"`
	Actor  string `json:"actor"`
	Action string `json:"action"` // e.g. "MINE", "ITEM_SPAWN", "DEPOSIT"
	Pos    [2]int `json:"pos"`
	Detail string `json:"detail,omitempty"`
}

type World struct {
	cfg WorldConfig

	tick atomic.Uint64

	tiles *TileMap
	paths *path.Service
	rng   *Streams

	designations map[string]*Designation
	jobs         map[string]*Job
	workers      map[string]*Worker
	items        map[string]*Item
	itemsAt      map[Vec2][]string
	stockpiles   map[string]*Stockpile

	clients map[string]*clientState

	commands chan Command
	attach   chan AttachRequest
	leave    chan string
	statusCh chan chan Status
	stop     chan struct{}

	nextDesignationNum atomic.Uint64
	nextJobNum         atomic.Uint64
	nextWorkerNum      atomic.Uint64
	nextItemNum        atomic.Uint64
	nextStockpileNum   atomic.Uint64
	nextClientNum      atomic.Uint64

	// Events accumulated during the current tick, broadcast with the OBS.
	events []protocol.Event

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger

	// Optional snapshot sink (may be nil). Snapshot writing should be off-thread.
	snapshotSink chan<- snapshot.SnapshotV1
}

// New builds a world with generated terrain. The mapgen seed is drawn from
// the mapgen RNG stream so terrain and scheduling randomness stay independent.
func New(cfg WorldConfig) (*World, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("world: map dimensions must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.TickRateHz <= 0 {
		return nil, fmt.Errorf("world: tick rate must be positive, got %d", cfg.TickRateHz)
	}
	if cfg.VisionRadius <= 0 {
		cfg.VisionRadius = 8
	}

	rng := NewStreams(cfg.Seed)
	tiles := GenerateTiles(cfg.Width, cfg.Height, rng.Mapgen.Int64())

	w := &World{
		cfg:          cfg,
		tiles:        tiles,
		rng:          rng,
		designations: map[string]*Designation{},
		jobs:         map[string]*Job{},
		workers:      map[string]*Worker{},
		items:        map[string]*Item{},
		itemsAt:      map[Vec2][]string{},
		stockpiles:   map[string]*Stockpile{},
		clients:      map[string]*clientState{},
		commands:     make(chan Command, 1024),
		attach:       make(chan AttachRequest, 64),
		leave:        make(chan string, 64),
		statusCh:     make(chan chan Status, 64),
		stop:         make(chan struct{}),
	}
	w.paths = path.NewService(tiles, cfg.PathCacheCapacity)
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger)                    { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger)                  { w.auditLogger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

func (w *World) Commands() chan<- Command       { return w.commands }
func (w *World) Attach() chan<- AttachRequest   { return w.attach }
func (w *World) Leave() chan<- string           { return w.leave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) Config() WorldConfig { return w.cfg }

// Run drives the fixed-step loop until ctx is cancelled or Stop is called.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []Command

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.attach:
			w.handleAttach(req)
		case id := <-w.leave:
			delete(w.clients, id)
		case cmd := <-w.commands:
			pending = append(pending, cmd)
		case resp := <-w.statusCh:
			resp <- w.status()
		case <-ticker.C:
			w.step(pending)
			pending = pending[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// handleAttach registers a read-only observation client. Attaching never
// touches simulation state, so it cannot affect determinism.
func (w *World) handleAttach(req AttachRequest) {
	id := fmt.Sprintf("C%d", w.nextClientNum.Add(1))
	if req.Out != nil {
		w.clients[id] = &clientState{Out: req.Out}
	}
	if req.Resp != nil {
		req.Resp <- AttachResponse{Welcome: protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			ClientID:        id,
			WorldParams: protocol.WorldParams{
				TickRateHz: w.cfg.TickRateHz,
				MapWidth:   w.cfg.Width,
				MapHeight:  w.cfg.Height,
				Seed:       w.cfg.Seed,
			},
		}}
	}
}

func (w *World) event(e protocol.Event) {
	w.events = append(w.events, e)
}

func (w *World) audit(nowTick uint64, actor, action string, pos Vec2, detail string) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(AuditEntry{
		Tick:   nowTick,
		Actor:  actor,
		Action: action,
		Pos:    [2]int{pos.X, pos.Y},
		Detail: detail,
	})
}
