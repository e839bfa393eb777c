package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPlayer(t *testing.T) {
	joined := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		id         string
		playerName string
	}{
		{"creates player with all fields", "player-123", "Alice"},
		{"creates player with special characters in name", "player-789", "Player@#$%"},
		{"creates player with unicode name", "player-unicode", "プレイヤー"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(tt.id, tt.playerName, joined)

			assert.Equal(t, tt.id, p.ID)
			assert.Equal(t, tt.playerName, p.Name)
			assert.Equal(t, joined, p.JoinedAt)
			assert.Equal(t, RoleUnassigned, p.Role)
			assert.Equal(t, CardHidden, p.Card)
			assert.False(t, p.Eliminated)
		})
	}
}

func TestPlayer_CardState(t *testing.T) {
	tests := []struct {
		card     CardState
		revealed bool
		finished bool
	}{
		{CardHidden, false, false},
		{CardRevealed, true, false},
		{CardFinished, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.card), func(t *testing.T) {
			p := Player{Card: tt.card}
			assert.Equal(t, tt.revealed, p.IsCardRevealed())
			assert.Equal(t, tt.finished, p.HasFinishedCard())
		})
	}
}

func TestPlayer_ResetForGame(t *testing.T) {
	p := NewPlayer("p1", "Alice", time.Time{})
	p.Card = CardFinished
	p.Eliminated = true
	p.Role = RoleSpy

	p.resetForGame(RoleCivilian)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, RoleCivilian, p.Role)
	assert.Equal(t, CardHidden, p.Card)
	assert.False(t, p.Eliminated)
	assert.False(t, p.IsSpy())
}
