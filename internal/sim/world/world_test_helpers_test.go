package world

import (
	"fmt"
	"testing"

	"goblincamp/internal/protocol"
)

// newFlatWorld builds a world whose map is all floor, so tests control
// terrain explicitly with tiles.Set.
func newFlatWorld(t *testing.T, width, height int) *World {
	t.Helper()
	w, err := New(WorldConfig{
		ID:               "W1",
		TickRateHz:       20,
		Width:            width,
		Height:           height,
		Seed:             42,
		VisionRadius:     8,
		StrictInvariants: true,
	})
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	w.tiles.restore(make([]TileKind, width*height), 0)
	return w
}

var testCmdNum int

func testCmd(op string) protocol.CommandReq {
	testCmdNum++
	return protocol.CommandReq{ID: fmt.Sprintf("CMD_%d", testCmdNum), Op: op}
}

func cmdDesignate(kind string, x, y int) Command {
	req := testCmd(protocol.OpSubmitDesignation)
	req.Kind = kind
	req.Pos = [2]int{x, y}
	return Command{ClientID: "C1", Req: req}
}

func cmdCancel(designationID string) Command {
	req := testCmd(protocol.OpCancelDesignation)
	req.DesignationID = designationID
	return Command{ClientID: "C1", Req: req}
}

func cmdSpawnWorker(name string, x, y int, caps ...string) Command {
	req := testCmd(protocol.OpSpawnWorker)
	req.Name = name
	req.Pos = [2]int{x, y}
	req.Capabilities = caps
	return Command{ClientID: "C1", Req: req}
}

func cmdAddStockpile(minX, minY, maxX, maxY int, accepts ...string) Command {
	req := testCmd(protocol.OpAddStockpile)
	req.Pos = [2]int{minX, minY}
	req.Max = [2]int{maxX, maxY}
	req.Accepts = accepts
	return Command{ClientID: "C1", Req: req}
}

func hasEvent(w *World, typ string) bool {
	for _, e := range w.events {
		if e["type"] == typ {
			return true
		}
	}
	return false
}

func eventReason(w *World, typ string) string {
	for _, e := range w.events {
		if e["type"] == typ {
			if r, ok := e["reason"].(string); ok {
				return r
			}
		}
	}
	return ""
}
