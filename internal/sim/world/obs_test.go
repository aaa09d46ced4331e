package world

import (
	"testing"

	"goblincamp/internal/protocol"
)

func TestObsReportsCountsAndCacheStats(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.tiles.Set(Vec2{5, 0}, TileWall)
	w.StepOnce([]Command{
		cmdSpawnWorker("digger", 0, 0, "MINE"),
		cmdDesignate("MINE", 5, 0),
	})

	obs := w.buildObs(w.CurrentTick())
	if obs.Type != protocol.TypeObs || obs.ProtocolVersion != protocol.Version {
		t.Fatalf("obs envelope wrong: %+v", obs)
	}
	if obs.JobCount != 1 {
		t.Fatalf("want 1 job in obs, got %d", obs.JobCount)
	}
	if len(obs.Workers) != 1 || obs.Workers[0].Name != "digger" {
		t.Fatalf("worker roster wrong: %+v", obs.Workers)
	}
	if obs.CacheStats.Misses == 0 {
		t.Fatalf("pathing ran, cache stats should show misses")
	}
	if len(obs.VisibleTiles) == 0 {
		t.Fatalf("worker should see some tiles")
	}
}

func TestObsEventsStampedWithTick(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	w.StepOnce([]Command{cmdDesignate("MINE", 4, 4)}) // floor: rejected path

	for _, e := range w.Events() {
		if e["t"] != w.CurrentTick() {
			t.Fatalf("event missing tick stamp: %+v", e)
		}
	}
	if len(w.Events()) == 0 {
		t.Fatalf("expected at least the cancellation event")
	}
}

func TestObsAttachHandshake(t *testing.T) {
	w := newFlatWorld(t, 9, 9)
	resp := make(chan AttachResponse, 1)
	w.handleAttach(AttachRequest{Name: "observer", Out: make(chan []byte, 4), Resp: resp})

	welcome := (<-resp).Welcome
	if welcome.Type != protocol.TypeWelcome {
		t.Fatalf("want WELCOME, got %s", welcome.Type)
	}
	if welcome.ClientID == "" {
		t.Fatalf("attach should mint a client id")
	}
	if welcome.WorldParams.MapWidth != 9 || welcome.WorldParams.MapHeight != 9 {
		t.Fatalf("world params wrong: %+v", welcome.WorldParams)
	}
}
