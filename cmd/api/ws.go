package main

import (
	"log/slog"
	"net/http"

	"github.com/cswallow/risk-battle-odds/internal/api"
	"github.com/cswallow/risk-battle-odds/internal/fortify"
)

// liveFrame is one message on the fortify progress stream.
type liveFrame struct {
	Type      string             `json:"type"` // "placement", "result" or "error"
	Placement *fortify.Placement `json:"placement,omitempty"`
	Result    any                `json:"result,omitempty"`
	Message   string             `json:"message,omitempty"`
}

// handleFortifyLive upgrades to a WebSocket, reads a single fortify request
// and streams one frame per committed placement. Fortification cost grows
// with the troop budget (every budgeted troop is a full engine evaluation
// per candidate territory), so slow runs get visible progress instead of a
// hanging POST.
func (s *server) handleFortifyLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req api.FortifyRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(liveFrame{Type: "error", Message: "invalid request frame"})
		return
	}

	scenarios, method, err := s.buildFortify(req)
	if err != nil {
		_ = conn.WriteJSON(liveFrame{Type: "error", Message: err.Error()})
		return
	}

	writeFailed := false
	res, err := fortify.AllocateObserved(scenarios, req.Troops, method, func(p fortify.Placement) {
		if writeFailed {
			return
		}
		if err := conn.WriteJSON(liveFrame{Type: "placement", Placement: &p}); err != nil {
			writeFailed = true
			slog.Warn("fortify stream write failed", "error", err)
		}
	})
	if err != nil {
		_ = conn.WriteJSON(liveFrame{Type: "error", Message: err.Error()})
		return
	}
	if !writeFailed {
		_ = conn.WriteJSON(liveFrame{Type: "result", Result: fortifyToWire(res)})
	}
}
