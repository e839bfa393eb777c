package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"spyfall/internal/game"
	"spyfall/internal/store"
)

// table looks up the table named in the URL, writing the error response if
// there is none
func (h *Handler) table(w http.ResponseWriter, r *http.Request) (*store.Table, bool) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	t, err := h.store.GetTable(code)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return t, true
}

// ListCategories returns the location catalog
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.catalog.Categories(),
		"spyTiers":   h.catalog.SpyTiers(),
	})
}

// CreateTable opens a new table
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.CreateTable()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(t))
}

// GetTable returns the public table state
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(t))
}

// DeleteTable closes a table
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	if err := h.store.DeleteTable(code); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addPlayerRequest struct {
	Name string `json:"name"`
}

// AddPlayer adds a player to the roster
func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	var req addPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := t.Engine.AddPlayer(req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playerView{ID: p.ID, Name: p.Name, Card: p.Card})
}

// RemovePlayer removes a player from the roster
func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	if err := t.Engine.RemovePlayer(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(t))
}

// ToggleCategory selects or deselects a category
func (h *Handler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	t.Engine.ToggleCategory(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, viewOf(t))
}

// Locations returns the location pool of the selected categories
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	locations := t.Engine.AvailableLocations()
	if locations == nil {
		locations = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
}

// StartGame deals roles and picks the location
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	if err := t.Engine.StartGame(); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logger.Info("game started", "table", t.Code, "players", t.Engine.ActivePlayerCount())
	writeJSON(w, http.StatusOK, viewOf(t))
}

type cardResponse struct {
	Player playerView     `json:"player"`
	Card   *game.RoleCard `json:"card,omitempty"`
}

// ToggleCard advances a player's card. The card contents are only returned
// on the tap that opens it.
func (h *Handler) ToggleCard(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	p, err := t.Engine.TogglePlayerCard(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := cardResponse{Player: playerView{ID: p.ID, Name: p.Name, Card: p.Card, Eliminated: p.Eliminated}}
	if p.IsCardRevealed() {
		card, err := t.Engine.CardFor(p.ID)
		if err == nil {
			resp.Card = &card
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type timerResponse struct {
	TimeRemaining int    `json:"timeRemaining"`
	Clock         string `json:"clock"`
	TimerRunning  bool   `json:"timerRunning"`
}

// Timer starts, pauses or resumes the countdown
func (h *Handler) Timer(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	switch chi.URLParam(r, "action") {
	case "start":
		if err := t.Engine.StartTimer(); err != nil {
			h.writeError(w, r, err)
			return
		}
	case "pause":
		t.Engine.PauseTimer()
	case "resume":
		if !t.Engine.ResumeTimer() {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "timer cannot be resumed"})
			return
		}
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown timer action"})
		return
	}

	remaining := t.Engine.TimeRemaining()
	writeJSON(w, http.StatusOK, timerResponse{
		TimeRemaining: remaining,
		Clock:         game.FormatTime(remaining),
		TimerRunning:  t.Engine.IsTimerRunning(),
	})
}

// Vote reports whether the accused player is an active spy without
// eliminating them
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if _, found := t.Engine.Player(id); !found {
		h.writeError(w, r, game.ErrPlayerNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isSpy": t.Engine.VoteForPlayer(id)})
}

// Eliminate votes a player out
func (h *Handler) Eliminate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	if err := t.Engine.EliminatePlayer(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(t))
}

type guessRequest struct {
	Location string `json:"location"`
}

type guessResponse struct {
	Correct bool      `json:"correct"`
	Table   tableView `json:"table"`
}

// Guess lets a spy name the location
func (h *Handler) Guess(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}

	var req guessRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	correct, err := t.Engine.GuessLocation(chi.URLParam(r, "id"), req.Location)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessResponse{Correct: correct, Table: viewOf(t)})
}

// Restart returns to setup, keeping players and categories
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	t.Engine.RestartToSetup()
	writeJSON(w, http.StatusOK, viewOf(t))
}

// Reset clears the table completely
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	t.Engine.Reset()
	writeJSON(w, http.StatusOK, viewOf(t))
}
