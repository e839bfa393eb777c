package game

import (
	"slices"
	"time"
)

// Phase is the stage of play, derived from the engine state
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseReveal  Phase = "reveal"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// Snapshot is a consistent copy of the engine state
type Snapshot struct {
	Phase              Phase     `json:"phase"`
	Players            []Player  `json:"players"`
	SelectedCategories []string  `json:"selectedCategories"`
	ReadyToStart       bool      `json:"readyToStart"`
	CurrentLocation    string    `json:"currentLocation,omitempty"`
	RevealedPlayerID   string    `json:"revealedPlayerId,omitempty"`
	TimeRemaining      int       `json:"timeRemaining"`
	Clock              string    `json:"clock"`
	TimerRunning       bool      `json:"timerRunning"`
	StartedAt          time.Time `json:"startedAt"`
	Result             Result    `json:"result,omitempty"`
	Reason             string    `json:"reason,omitempty"`
	ActivePlayers      int       `json:"activePlayers"`
	EliminatedPlayers  int       `json:"eliminatedPlayers"`
	ActiveSpies        int       `json:"activeSpies"`
}

// Snapshot returns the full engine state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	active := e.activeCountLocked()
	return Snapshot{
		Phase:              e.phaseLocked(),
		Players:            e.playersLocked(),
		SelectedCategories: slices.Clone(e.categories),
		ReadyToStart:       e.isReadyLocked(),
		CurrentLocation:    e.location,
		RevealedPlayerID:   e.revealed,
		TimeRemaining:      e.timeRemaining,
		Clock:              FormatTime(e.timeRemaining),
		TimerRunning:       e.timerRunning,
		StartedAt:          e.startedAt,
		Result:             e.result,
		Reason:             e.reason,
		ActivePlayers:      active,
		EliminatedPlayers:  len(e.players) - active,
		ActiveSpies:        len(e.spies),
	}
}

// Phase returns the current stage of play
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.phaseLocked()
}

func (e *Engine) phaseLocked() Phase {
	switch {
	case e.location == "":
		return PhaseSetup
	case e.result != ResultNone:
		return PhaseEnded
	case !e.allFinishedLocked():
		return PhaseReveal
	default:
		return PhasePlaying
	}
}

// Players returns a copy of the roster in join order
func (e *Engine) Players() []Player {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playersLocked()
}

func (e *Engine) playersLocked() []Player {
	players := make([]Player, len(e.players))
	for i, p := range e.players {
		players[i] = *p
	}
	return players
}

// Player returns a copy of one player
func (e *Engine) Player(id string) (Player, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.find(id)
	if p == nil {
		return Player{}, false
	}
	return *p, true
}

// SelectedCategories returns the selected category ids in selection order
func (e *Engine) SelectedCategories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.categories)
}

// AvailableLocations returns the location pool of the current selection
func (e *Engine) AvailableLocations() []string {
	e.mu.Lock()
	ids := slices.Clone(e.categories)
	e.mu.Unlock()

	return e.catalog.LocationsForCategories(ids)
}

// CurrentLocation returns the secret location, or "" before a game starts
func (e *Engine) CurrentLocation() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.location
}

// TimeRemaining returns the countdown in seconds
func (e *Engine) TimeRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.timeRemaining
}

// IsTimerRunning reports whether the countdown is ticking
func (e *Engine) IsTimerRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.timerRunning
}

// StartedAt returns when the countdown first started this game
func (e *Engine) StartedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.startedAt
}

// GameDuration returns the seconds of the round used so far
func (e *Engine) GameDuration() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.rules.roundSeconds() - e.timeRemaining
}

// Result returns the outcome and its reason; ResultNone while in progress
func (e *Engine) Result() (Result, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.result, e.reason
}

// ActivePlayerCount returns the number of players not yet eliminated
func (e *Engine) ActivePlayerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.activeCountLocked()
}

// EliminatedPlayerCount returns the number of eliminated players
func (e *Engine) EliminatedPlayerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.players) - e.activeCountLocked()
}

// ActiveSpyCount returns the number of spies still in play
func (e *Engine) ActiveSpyCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.spies)
}

// SpyPlayers returns every player dealt the spy role this game
func (e *Engine) SpyPlayers() []Player {
	return e.playersWithRole(RoleSpy)
}

// CivilianPlayers returns every player dealt the civilian role this game
func (e *Engine) CivilianPlayers() []Player {
	return e.playersWithRole(RoleCivilian)
}

func (e *Engine) playersWithRole(role Role) []Player {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Player
	for _, p := range e.players {
		if p.Role == role {
			out = append(out, *p)
		}
	}
	return out
}
