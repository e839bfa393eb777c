package game

import "errors"

var (
	ErrEmptyName         = errors.New("player name is empty")
	ErrRosterFull        = errors.New("roster is full")
	ErrDuplicateName     = errors.New("a player with that name already exists")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotReady          = errors.New("not enough players or no category selected")
	ErrNoLocations       = errors.New("selected categories contain no locations")
	ErrGameNotStarted    = errors.New("game has not started")
	ErrGameOver          = errors.New("game is already over")
	ErrCardFinished      = errors.New("player has already seen their card")
	ErrRevealLocked      = errors.New("another player's card is open")
	ErrCardNotRevealed   = errors.New("player's card is not open")
	ErrAlreadyEliminated = errors.New("player is already eliminated")
	ErrNotSpy            = errors.New("only an active spy can guess the location")
	ErrGameInProgress    = errors.New("roster cannot change while a game is in progress")
)
