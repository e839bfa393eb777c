package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	datastar "github.com/starfederation/datastar-go/datastar"

	"spyfall/internal/game"
)

// keepaliveInterval keeps idle SSE connections from being closed by browsers
var keepaliveInterval = 30 * time.Second

// StreamTable streams table state to a datastar client as signal patches.
// Timer ticks only patch the clock; every other event patches the full state.
func (h *Handler) StreamTable(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	t, err := h.store.GetTable(code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	events := h.eventBus.Subscribe(code)
	defer h.eventBus.Unsubscribe(code, events)

	sse := datastar.NewSSE(w, r)
	h.logger.Debug("sse connected", "table", code, "remote", r.RemoteAddr)

	if err := sse.MarshalAndPatchSignals(tableSignals(t.Engine.Snapshot())); err != nil {
		h.logger.Warn("failed to send initial table state", "table", code, "error", err)
		return
	}

	heartbeat := time.NewTicker(keepaliveInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("sse disconnected", "table", code)
			return
		case <-heartbeat.C:
			if !h.store.Touch(code) {
				h.logger.Debug("table gone, closing sse", "table", code)
				return
			}
			if err := sse.Send("keepalive", []string{fmt.Sprintf(`{"time":"%s"}`, time.Now().Format(time.RFC3339))}); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}

			var signals map[string]any
			if event.Data.Type == game.EventTimerTick {
				signals = timerSignals(event.Data)
			} else {
				signals = tableSignals(t.Engine.Snapshot())
			}
			if err := sse.MarshalAndPatchSignals(signals); err != nil {
				h.logger.Debug("sse write failed", "table", code, "error", err)
				return
			}
		}
	}
}

func timerSignals(ev game.Event) map[string]any {
	return map[string]any{
		"timeRemaining": ev.TimeRemaining,
		"clock":         game.FormatTime(ev.TimeRemaining),
		"timerRunning":  ev.TimerRunning,
	}
}

func tableSignals(snap game.Snapshot) map[string]any {
	return map[string]any{
		"phase":            snap.Phase,
		"timeRemaining":    snap.TimeRemaining,
		"clock":            snap.Clock,
		"timerRunning":     snap.TimerRunning,
		"revealedPlayerId": snap.RevealedPlayerID,
		"readyToStart":     snap.ReadyToStart,
		"playerCount":      len(snap.Players),
		"activePlayers":    snap.ActivePlayers,
		"result":           snap.Result,
		"reason":           snap.Reason,
	}
}
