package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"spyfall/internal/game"
	"spyfall/internal/store"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, store.ErrTableNotFound),
		errors.Is(err, game.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrEmptyName),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, game.ErrNotSpy):
		return http.StatusForbidden
	case errors.Is(err, game.ErrRosterFull),
		errors.Is(err, game.ErrDuplicateName),
		errors.Is(err, game.ErrNotReady),
		errors.Is(err, game.ErrNoLocations),
		errors.Is(err, game.ErrGameNotStarted),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrCardFinished),
		errors.Is(err, game.ErrRevealLocked),
		errors.Is(err, game.ErrCardNotRevealed),
		errors.Is(err, game.ErrAlreadyEliminated),
		errors.Is(err, game.ErrGameInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("malformed request body")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errBadRequest
	}
	return nil
}

// playerView is a player as shown to the whole table. Roles stay hidden
// until the game has ended.
type playerView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Card       game.CardState `json:"card"`
	Eliminated bool           `json:"eliminated"`
	Role       game.Role      `json:"role,omitempty"`
}

// tableView is the public state of a table
type tableView struct {
	Code               string       `json:"code"`
	Phase              game.Phase   `json:"phase"`
	Players            []playerView `json:"players"`
	SelectedCategories []string     `json:"selectedCategories"`
	ReadyToStart       bool         `json:"readyToStart"`
	RevealedPlayerID   string       `json:"revealedPlayerId,omitempty"`
	TimeRemaining      int          `json:"timeRemaining"`
	Clock              string       `json:"clock"`
	TimerRunning       bool         `json:"timerRunning"`
	GameDuration       int          `json:"gameDuration"`
	Result             game.Result  `json:"result,omitempty"`
	Reason             string       `json:"reason,omitempty"`
	Location           string       `json:"location,omitempty"`
	ActivePlayers      int          `json:"activePlayers"`
	EliminatedPlayers  int          `json:"eliminatedPlayers"`
	ActiveSpies        int          `json:"activeSpies"`
}

func newTableView(code string, snap game.Snapshot, rules game.Rules) tableView {
	ended := snap.Phase == game.PhaseEnded

	players := make([]playerView, len(snap.Players))
	for i, p := range snap.Players {
		players[i] = playerView{ID: p.ID, Name: p.Name, Card: p.Card, Eliminated: p.Eliminated}
		if ended {
			players[i].Role = p.Role
		}
	}

	view := tableView{
		Code:               code,
		Phase:              snap.Phase,
		Players:            players,
		SelectedCategories: snap.SelectedCategories,
		ReadyToStart:       snap.ReadyToStart,
		RevealedPlayerID:   snap.RevealedPlayerID,
		TimeRemaining:      snap.TimeRemaining,
		Clock:              snap.Clock,
		TimerRunning:       snap.TimerRunning,
		GameDuration:       int(rules.RoundDuration/time.Second) - snap.TimeRemaining,
		Result:             snap.Result,
		Reason:             snap.Reason,
		ActivePlayers:      snap.ActivePlayers,
		EliminatedPlayers:  snap.EliminatedPlayers,
		ActiveSpies:        snap.ActiveSpies,
	}
	if view.SelectedCategories == nil {
		view.SelectedCategories = []string{}
	}
	if ended {
		view.Location = snap.CurrentLocation
	}
	return view
}

func viewOf(t *store.Table) tableView {
	return newTableView(t.Code, t.Engine.Snapshot(), t.Engine.Rules())
}
