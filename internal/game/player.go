package game

import (
	"time"
)

// Role is the secret role dealt to a player
type Role string

const (
	RoleUnassigned Role = ""
	RoleCivilian   Role = "civilian"
	RoleSpy        Role = "spy"
)

// CardState tracks a player's progress through the two-tap card reveal
type CardState string

const (
	CardHidden   CardState = "hidden"
	CardRevealed CardState = "revealed"
	CardFinished CardState = "finished"
)

// Player represents a player at the table
type Player struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Role       Role      `json:"role,omitempty"`
	Card       CardState `json:"card"`
	Eliminated bool      `json:"eliminated"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player
func NewPlayer(id, name string, joinedAt time.Time) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Card:     CardHidden,
		JoinedAt: joinedAt,
	}
}

// IsCardRevealed reports whether the player is currently looking at their card
func (p Player) IsCardRevealed() bool {
	return p.Card == CardRevealed
}

// HasFinishedCard reports whether the player completed both taps
func (p Player) HasFinishedCard() bool {
	return p.Card == CardFinished
}

// IsSpy reports whether the player was dealt the spy role
func (p Player) IsSpy() bool {
	return p.Role == RoleSpy
}

// resetForGame clears per-game state, keeping identity
func (p *Player) resetForGame(role Role) {
	p.Role = role
	p.Card = CardHidden
	p.Eliminated = false
}
