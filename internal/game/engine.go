package game

import (
	"context"
	"log/slog"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocationCatalog supplies the locations of the selected categories and the
// spy count for a roster size
type LocationCatalog interface {
	LocationsForCategories(ids []string) []string
	SpyCount(playerCount int) int
}

const (
	DefaultMinPlayers    = 3
	DefaultMaxPlayers    = 20
	DefaultRoundDuration = 480 * time.Second
	DefaultRevealGrace   = time.Second

	tickInterval = time.Second
)

// Rules are the table limits and timings
type Rules struct {
	MinPlayers    int
	MaxPlayers    int
	RoundDuration time.Duration
	RevealGrace   time.Duration
}

// DefaultRules returns the standard rules
func DefaultRules() Rules {
	return Rules{
		MinPlayers:    DefaultMinPlayers,
		MaxPlayers:    DefaultMaxPlayers,
		RoundDuration: DefaultRoundDuration,
		RevealGrace:   DefaultRevealGrace,
	}
}

func (r Rules) roundSeconds() int {
	return int(r.RoundDuration / time.Second)
}

// Option configures an Engine
type Option func(*Engine)

// WithRules overrides the default rules
func WithRules(rules Rules) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithClock replaces the wall clock, mainly for tests
func WithClock(clock Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithRandSource makes location and spy selection use src
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) { e.rng = rand.New(src) }
}

// WithListener registers a listener for engine events
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listener = l }
}

// WithLogger sets the engine logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine is the game state machine for one shared device. All methods are
// safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	catalog  LocationCatalog
	rules    Rules
	clock    Clock
	rng      *rand.Rand
	logger   *slog.Logger
	listener Listener
	pending  []Event

	players    []*Player
	categories []string

	// Per-game state
	session       uint64
	location      string
	spies         map[string]struct{}
	revealed      string
	timeRemaining int
	timerRunning  bool
	timerGen      uint64
	timerCancel   context.CancelFunc
	grace         Timer
	startedAt     time.Time
	result        Result
	reason        string
}

// NewEngine creates an engine drawing locations from catalog
func NewEngine(catalog LocationCatalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		rules:   DefaultRules(),
		clock:   realClock{},
		logger:  slog.Default(),
		spies:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.timeRemaining = e.rules.roundSeconds()
	return e
}

// Rules returns the engine's rules
func (e *Engine) Rules() Rules {
	return e.rules
}

// AddPlayer adds a player to the roster
func (e *Engine) AddPlayer(name string) (Player, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Player{}, ErrEmptyName
	}

	e.mu.Lock()
	defer e.unlock()

	if e.inProgressLocked() {
		return Player{}, ErrGameInProgress
	}
	if len(e.players) >= e.rules.MaxPlayers {
		return Player{}, ErrRosterFull
	}
	for _, p := range e.players {
		if strings.EqualFold(p.Name, trimmed) {
			return Player{}, ErrDuplicateName
		}
	}

	player := NewPlayer(uuid.NewString(), trimmed, e.clock.Now())
	e.players = append(e.players, player)
	e.emit(EventRosterChanged, player.ID)
	return *player, nil
}

// RemovePlayer removes a player, keeping the order of the others. The roster
// is fixed from StartGame until the game ends or returns to setup.
func (e *Engine) RemovePlayer(id string) error {
	e.mu.Lock()
	defer e.unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return ErrPlayerNotFound
	}
	if e.inProgressLocked() {
		return ErrGameInProgress
	}

	e.players = slices.Delete(e.players, idx, idx+1)
	delete(e.spies, id)
	if e.revealed == id {
		e.revealed = ""
	}
	e.emit(EventRosterChanged, id)
	return nil
}

func (e *Engine) inProgressLocked() bool {
	return e.location != "" && e.result == ResultNone
}

// ToggleCategory selects or deselects a category id
func (e *Engine) ToggleCategory(id string) {
	e.mu.Lock()
	defer e.unlock()

	if idx := slices.Index(e.categories, id); idx >= 0 {
		e.categories = slices.Delete(e.categories, idx, idx+1)
	} else {
		e.categories = append(e.categories, id)
	}
	e.emit(EventCategoriesChanged, "")
}

// IsReadyToStart reports whether there are enough players and a category
func (e *Engine) IsReadyToStart() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.isReadyLocked()
}

func (e *Engine) isReadyLocked() bool {
	return len(e.players) >= e.rules.MinPlayers && len(e.categories) > 0
}

// StartGame picks the location, deals roles and resets the round
func (e *Engine) StartGame() error {
	e.mu.Lock()
	defer e.unlock()

	if !e.isReadyLocked() {
		return ErrNotReady
	}

	locations := e.catalog.LocationsForCategories(slices.Clone(e.categories))
	if len(locations) == 0 {
		return ErrNoLocations
	}

	e.cancelTimersLocked()
	e.session++
	e.location = locations[e.rng.Intn(len(locations))]
	e.spies = assignRoles(e.players, e.catalog.SpyCount(len(e.players)), e.rng)
	e.revealed = ""
	e.timeRemaining = e.rules.roundSeconds()
	e.startedAt = time.Time{}
	e.result = ResultNone
	e.reason = ""

	e.logger.Debug("game started", "players", len(e.players), "spies", len(e.spies), "categories", len(e.categories))
	e.emit(EventGameStarted, "")
	return nil
}

// TogglePlayerCard advances a player's card: hidden to revealed on the first
// tap, revealed to finished on the second. Only one card may be open at once.
func (e *Engine) TogglePlayerCard(id string) (Player, error) {
	e.mu.Lock()
	defer e.unlock()

	if e.location == "" {
		return Player{}, ErrGameNotStarted
	}
	if e.result != ResultNone {
		return Player{}, ErrGameOver
	}

	p := e.find(id)
	if p == nil {
		return Player{}, ErrPlayerNotFound
	}
	if p.Card == CardFinished {
		return Player{}, ErrCardFinished
	}
	if e.revealed != "" && e.revealed != id {
		return Player{}, ErrRevealLocked
	}

	switch p.Card {
	case CardHidden:
		p.Card = CardRevealed
		e.revealed = id
		e.emit(EventCardToggled, id)
	case CardRevealed:
		p.Card = CardFinished
		e.revealed = ""
		e.emit(EventCardToggled, id)
		if e.allFinishedLocked() {
			e.scheduleRoundLocked()
			e.emit(EventAllCardsSeen, "")
		}
	}
	return *p, nil
}

// RoleCard is what a player sees when their card is open
type RoleCard struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Location string `json:"location,omitempty"`
}

// CardFor returns the contents of a player's open card. Spies get no location.
func (e *Engine) CardFor(id string) (RoleCard, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.find(id)
	if p == nil {
		return RoleCard{}, ErrPlayerNotFound
	}
	if p.Card != CardRevealed {
		return RoleCard{}, ErrCardNotRevealed
	}

	card := RoleCard{PlayerID: p.ID, Name: p.Name, Role: p.Role}
	if p.Role == RoleCivilian {
		card.Location = e.location
	}
	return card, nil
}

// AllPlayersFinished reports whether every player has seen their card
func (e *Engine) AllPlayersFinished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.allFinishedLocked()
}

func (e *Engine) allFinishedLocked() bool {
	for _, p := range e.players {
		if p.Card != CardFinished {
			return false
		}
	}
	return true
}

// VoteForPlayer reports whether the player is an active spy. It does not
// change any state.
func (e *Engine) VoteForPlayer(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.spies[id]
	return ok
}

// EliminatePlayer votes a player out and evaluates the win conditions
func (e *Engine) EliminatePlayer(id string) error {
	e.mu.Lock()
	defer e.unlock()

	return e.eliminateLocked(id, false)
}

// GuessLocation lets an active spy name the location. The spy is eliminated
// either way; a correct guess wins the game for the spies outright.
func (e *Engine) GuessLocation(id, guess string) (bool, error) {
	e.mu.Lock()
	defer e.unlock()

	if e.location == "" {
		return false, ErrGameNotStarted
	}
	if e.result != ResultNone {
		return false, ErrGameOver
	}
	if _, ok := e.spies[id]; !ok {
		return false, ErrNotSpy
	}

	correct := guess == e.location
	if err := e.eliminateLocked(id, correct); err != nil {
		return false, err
	}
	return correct, nil
}

func (e *Engine) eliminateLocked(id string, correctGuess bool) error {
	if e.location == "" {
		return ErrGameNotStarted
	}
	if e.result != ResultNone {
		return ErrGameOver
	}

	p := e.find(id)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.Eliminated {
		return ErrAlreadyEliminated
	}

	p.Eliminated = true
	e.emit(EventPlayerEliminated, id)

	if _, spy := e.spies[id]; spy {
		delete(e.spies, id)
		if correctGuess {
			e.endGameLocked(ResultSpyWins, ReasonLocationGuessed)
			return nil
		}
		if len(e.spies) == 0 {
			e.endGameLocked(ResultCivilianWins, ReasonAllSpiesEliminated)
			return nil
		}
	}

	if len(e.spies)*2 >= e.activeCountLocked() {
		e.endGameLocked(ResultSpyWins, ReasonSpyMajority)
	}
	return nil
}

// endGameLocked records the result. Only the first call per game has any
// effect.
func (e *Engine) endGameLocked(result Result, reason string) bool {
	if e.result != ResultNone {
		return false
	}

	e.cancelTimersLocked()
	e.result = result
	e.reason = reason

	e.logger.Debug("game ended", "result", result, "reason", reason, "timeRemaining", e.timeRemaining)
	e.emit(EventGameEnded, "")
	return true
}

// RestartToSetup returns to the setup screen keeping players and categories
func (e *Engine) RestartToSetup() {
	e.mu.Lock()
	defer e.unlock()

	e.clearGameLocked()
	for _, p := range e.players {
		p.resetForGame(RoleUnassigned)
	}
	e.emit(EventRestarted, "")
}

// Reset clears everything, including the roster and categories
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.unlock()

	e.clearGameLocked()
	e.players = nil
	e.categories = nil
	e.emit(EventReset, "")
}

func (e *Engine) clearGameLocked() {
	e.cancelTimersLocked()
	e.session++
	e.location = ""
	e.spies = make(map[string]struct{})
	e.revealed = ""
	e.timeRemaining = e.rules.roundSeconds()
	e.startedAt = time.Time{}
	e.result = ResultNone
	e.reason = ""
}

// Close stops the timer goroutine and any pending round start
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelTimersLocked()
}

func (e *Engine) find(id string) *Player {
	if idx := e.indexOf(id); idx >= 0 {
		return e.players[idx]
	}
	return nil
}

func (e *Engine) indexOf(id string) int {
	return slices.IndexFunc(e.players, func(p *Player) bool { return p.ID == id })
}

func (e *Engine) activeCountLocked() int {
	count := 0
	for _, p := range e.players {
		if !p.Eliminated {
			count++
		}
	}
	return count
}
