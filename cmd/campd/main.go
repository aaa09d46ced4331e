package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"goblincamp/internal/persistence/indexdb"
	persistlog "goblincamp/internal/persistence/log"
	"goblincamp/internal/persistence/snapshot"
	"goblincamp/internal/sim/tuning"
	"goblincamp/internal/sim/world"
	"goblincamp/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		worldID    = flag.String("world", "camp_1", "world id")
		seed       = flag.Int64("seed", 1337, "world seed (used only when starting a fresh world)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite tick/audit/snapshot index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[campd] ", log.LstdFlags|log.Lmicroseconds)

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	_ = os.MkdirAll(worldDir, 0o755)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}

	// Secondary index; does not affect sim determinism.
	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(worldDir, "index", "camp.db"))
		if err != nil {
			logger.Fatalf("open index db: %v", err)
		}
		defer idx.Close()
	}

	// Create world (fresh or resumed from snapshot).
	var w *world.World
	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = latestSnapshot(worldDir)
	}
	if snapshotToLoad != "" {
		snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		if snap.Header.WorldID != "" && snap.Header.WorldID != *worldID {
			logger.Fatalf("snapshot world id mismatch: flag=%s snap=%s", *worldID, snap.Header.WorldID)
		}
		w, err = world.Restore(snap)
		if err != nil {
			logger.Fatalf("restore snapshot: %v", err)
		}
		logger.Printf("resumed from snapshot=%s tick=%d", filepath.Base(snapshotToLoad), w.CurrentTick())
	} else {
		w, err = world.New(world.WorldConfig{
			ID:                 *worldID,
			TickRateHz:         tune.TickRateHz,
			Width:              tune.MapWidth,
			Height:             tune.MapHeight,
			Seed:               *seed,
			PathCacheCapacity:  tune.PathCacheCapacity,
			AutoJobs:           tune.AutoJobs,
			JobPriorityJitter:  tune.JobPriorityJitter,
			SnapshotEveryTicks: tune.SnapshotEveryTicks,
			VisionRadius:       tune.VisionRadius,
		})
		if err != nil {
			logger.Fatalf("world: %v", err)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	tickLog := persistlog.NewTickLogger(worldDir)
	auditLog := persistlog.NewAuditLogger(worldDir)
	defer tickLog.Close()
	defer auditLog.Close()
	w.SetTickLogger(multiTickLogger{a: tickLog, b: idx})
	w.SetAuditLogger(multiAuditLogger{a: auditLog, b: idx})

	// Snapshot writer, off the loop goroutine.
	snapCh := make(chan snapshot.SnapshotV1, 2)
	w.SetSnapshotSink(snapCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapCh:
				path := filepath.Join(worldDir, "snapshots", fmt.Sprintf("%d.snap.zst", snap.Header.Tick))
				if err := snapshot.WriteSnapshot(path, snap); err != nil {
					logger.Printf("snapshot write: %v", err)
					continue
				}
				if idx != nil {
					idx.RecordSnapshot(path, snap)
				}
			}
		}
	}()

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		st := w.QueryStatus()
		fmt.Fprintf(rw, "# HELP goblincamp_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE goblincamp_world_tick gauge\n")
		fmt.Fprintf(rw, "goblincamp_world_tick{world=%q} %d\n", *worldID, st.Tick)

		fmt.Fprintf(rw, "# HELP goblincamp_world_entities Live entity counts.\n")
		fmt.Fprintf(rw, "# TYPE goblincamp_world_entities gauge\n")
		fmt.Fprintf(rw, "goblincamp_world_entities{world=%q,kind=%q} %d\n", *worldID, "designations", st.Designations)
		fmt.Fprintf(rw, "goblincamp_world_entities{world=%q,kind=%q} %d\n", *worldID, "jobs", st.Jobs)
		fmt.Fprintf(rw, "goblincamp_world_entities{world=%q,kind=%q} %d\n", *worldID, "workers", st.Workers)
		fmt.Fprintf(rw, "goblincamp_world_entities{world=%q,kind=%q} %d\n", *worldID, "items", st.Items)
		fmt.Fprintf(rw, "goblincamp_world_entities{world=%q,kind=%q} %d\n", *worldID, "stockpiles", st.Stockpiles)

		fmt.Fprintf(rw, "# HELP goblincamp_world_clients Connected observation clients.\n")
		fmt.Fprintf(rw, "# TYPE goblincamp_world_clients gauge\n")
		fmt.Fprintf(rw, "goblincamp_world_clients{world=%q} %d\n", *worldID, st.Clients)

		fmt.Fprintf(rw, "# HELP goblincamp_path_cache Path cache counters.\n")
		fmt.Fprintf(rw, "# TYPE goblincamp_path_cache counter\n")
		fmt.Fprintf(rw, "goblincamp_path_cache{world=%q,result=%q} %d\n", *worldID, "hit", st.CacheHits)
		fmt.Fprintf(rw, "goblincamp_path_cache{world=%q,result=%q} %d\n", *worldID, "miss", st.CacheMisses)
	})
	mux.HandleFunc("/v1/status", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(w.QueryStatus())
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

// latestSnapshot finds the highest-tick snapshot file under worldDir.
func latestSnapshot(worldDir string) string {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	type cand struct {
		tick int64
		name string
	}
	var cands []cand
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		t, err := strconv.ParseInt(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		cands = append(cands, cand{tick: t, name: name})
	}
	if len(cands) == 0 {
		return ""
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].tick > cands[j].tick })
	return filepath.Join(dir, cands[0].name)
}

// multiTickLogger fans tick entries out to the JSONL journal and the index.
type multiTickLogger struct {
	a *persistlog.TickLogger
	b *indexdb.SQLiteIndex
}

func (m multiTickLogger) WriteTick(e world.TickLogEntry) error {
	if m.a != nil {
		if err := m.a.WriteTick(e); err != nil {
			return err
		}
	}
	if m.b != nil {
		return m.b.WriteTick(e)
	}
	return nil
}

type multiAuditLogger struct {
	a *persistlog.AuditLogger
	b *indexdb.SQLiteIndex
}

func (m multiAuditLogger) WriteAudit(e world.AuditEntry) error {
	if m.a != nil {
		if err := m.a.WriteAudit(e); err != nil {
			return err
		}
	}
	if m.b != nil {
		return m.b.WriteAudit(e)
	}
	return nil
}
