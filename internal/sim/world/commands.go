package world

import "goblincamp/internal/protocol"

// applyCommands validates and applies the tick's pending commands in
// arrival order. A rejected command produces a COMMAND_REJECTED event with
// an error code; it never aborts the batch.
func (w *World) applyCommands(pending []Command, nowTick uint64) {
	for _, cmd := range pending {
		req := cmd.Req
		code := w.applyCommand(req, nowTick)
		if code != "" {
			w.event(protocol.Event{
				"type":   "COMMAND_REJECTED",
				"cmd":    req.ID,
				"client": cmd.ClientID,
				"op":     req.Op,
				"reason": code,
			})
		}
	}
}

func (w *World) applyCommand(req protocol.CommandReq, nowTick uint64) string {
	switch req.Op {
	case protocol.OpSubmitDesignation:
		kind := DesignationKind(req.Kind)
		if kind != DesignationMine && kind != DesignationHaul {
			return protocol.ErrBadRequest
		}
		pos := Vec2{req.Pos[0], req.Pos[1]}
		if !w.tiles.InBounds(pos) {
			return protocol.ErrInvalidTarget
		}
		d := w.newDesignation(pos, kind, nowTick)
		w.event(protocol.Event{
			"type":        "DESIGNATION_SUBMITTED",
			"designation": d.ID,
			"cmd":         req.ID,
		})
		return ""

	case protocol.OpCancelDesignation:
		d, ok := w.designations[req.DesignationID]
		if !ok {
			return protocol.ErrStale
		}
		if d.State.terminal() {
			return protocol.ErrStale
		}
		w.cancelDesignation(d, "CLIENT_REQUEST", nowTick)
		return ""

	case protocol.OpSpawnWorker:
		pos := Vec2{req.Pos[0], req.Pos[1]}
		if !w.tiles.IsWalkable(pos.X, pos.Y) {
			return protocol.ErrInvalidTarget
		}
		caps := CapabilitiesFromNames(req.Capabilities)
		if caps == 0 {
			caps = CapMine | CapHaul
		}
		wk := w.spawnWorker(req.Name, pos, caps)
		w.event(protocol.Event{
			"type":   "WORKER_SPAWNED",
			"worker": wk.ID,
			"cmd":    req.ID,
		})
		return ""

	case protocol.OpAddStockpile:
		min := Vec2{req.Pos[0], req.Pos[1]}
		max := Vec2{req.Max[0], req.Max[1]}
		if !w.tiles.InBounds(min) || !w.tiles.InBounds(max) {
			return protocol.ErrInvalidTarget
		}
		accepts := req.Accepts
		if len(accepts) == 0 {
			accepts = []string{ItemStone}
		}
		s := w.addStockpile(min, max, accepts)
		w.event(protocol.Event{
			"type":      "STOCKPILE_ADDED",
			"stockpile": s.ID,
			"cmd":       req.ID,
		})
		return ""

	default:
		return protocol.ErrBadRequest
	}
}
