package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteForPlayer_DoesNotChangeState(t *testing.T) {
	e, _, _ := startedEngine(t, newStubCatalog(), "A", "B", "C", "D")
	spies, civilians := splitRoles(e)
	require.Len(t, spies, 1)

	before := e.Snapshot()
	assert.True(t, e.VoteForPlayer(spies[0]))
	assert.False(t, e.VoteForPlayer(civilians[0]))
	assert.False(t, e.VoteForPlayer("nobody"))
	assert.Equal(t, before, e.Snapshot())
}

func TestEliminatePlayer_RequiresRunningGame(t *testing.T) {
	e, _ := newTestEngine(t, newStubCatalog())
	ids := addPlayers(t, e, "A", "B", "C")
	assert.ErrorIs(t, e.EliminatePlayer(ids[0]), ErrGameNotStarted)

	_, err := e.GuessLocation(ids[0], "Beach")
	assert.ErrorIs(t, err, ErrGameNotStarted)
}

func TestEliminatePlayer_Twice(t *testing.T) {
	e, _, _ := startedEngine(t, newStubCatalog(), "A", "B", "C", "D", "E", "F")
	_, civilians := splitRoles(e)

	require.NoError(t, e.EliminatePlayer(civilians[0]))
	assert.ErrorIs(t, e.EliminatePlayer(civilians[0]), ErrAlreadyEliminated)
	assert.Equal(t, 1, e.EliminatedPlayerCount())
	assert.Equal(t, 5, e.ActivePlayerCount())

	assert.ErrorIs(t, e.EliminatePlayer("nobody"), ErrPlayerNotFound)
}

func TestEliminatePlayer_LastSpyCiviliansWin(t *testing.T) {
	e, _, _ := startedEngine(t, newStubCatalog(), "A", "B", "C", "D")
	spies, _ := splitRoles(e)

	require.NoError(t, e.EliminatePlayer(spies[0]))

	result, reason := e.Result()
	assert.Equal(t, ResultCivilianWins, result)
	assert.Equal(t, ReasonAllSpiesEliminated, reason)
	assert.Equal(t, 0, e.ActiveSpyCount())
	assert.Equal(t, PhaseEnded, e.Phase())
}

func TestEliminatePlayer_SpyMajority(t *testing.T) {
	t.Run("one spy among four", func(t *testing.T) {
		e, _, _ := startedEngine(t, newStubCatalog(), "A", "B", "C", "D")
		_, civilians := splitRoles(e)

		// 1 spy, 3 active: no majority yet.
		require.NoError(t, e.EliminatePlayer(civilians[0]))
		result, _ := e.Result()
		assert.Equal(t, ResultNone, result)

		// 1 spy, 2 active: spies control half the table.
		require.NoError(t, e.EliminatePlayer(civilians[1]))
		result, reason := e.Result()
		assert.Equal(t, ResultSpyWins, result)
		assert.Equal(t, ReasonSpyMajority, reason)
	})

	t.Run("two spies among five", func(t *testing.T) {
		catalog := newStubCatalog()
		catalog.spies = 2
		e, _, _ := startedEngine(t, catalog, "A", "B", "C", "D", "E")
		spies, civilians := splitRoles(e)
		require.Len(t, spies, 2)

		// 2 spies, 4 active already satisfies the majority rule.
		require.NoError(t, e.EliminatePlayer(civilians[0]))
		result, reason := e.Result()
		assert.Equal(t, ResultSpyWins, result)
		assert.Equal(t, ReasonSpyMajority, reason)

		assert.ErrorIs(t, e.EliminatePlayer(civilians[1]), ErrGameOver)
		assert.Equal(t, 1, e.EliminatedPlayerCount())
	})
}

func TestGuessLocation(t *testing.T) {
	t.Run("correct guess wins for the spies", func(t *testing.T) {
		e, _, _ := startedEngine(t, newStubCatalog(), "A", "B", "C")
		spies, _ := splitRoles(e)

		correct, err := e.GuessLocation(spies[0], e.CurrentLocation())
		require.NoError(t, err)
		assert.True(t, correct)

		result, reason := e.Result()
		assert.Equal(t, ResultSpyWins, result)
		assert.Equal(t, ReasonLocationGuessed, reason)

		p, _ := e.Player(spies[0])
		assert.True(t, p.Eliminated, "the guessing spy leaves play either way")
	})

	t.Run("wrong guesses by every spy hand civilians the win", func(t *testing.T) {
		catalog := newStubCatalog()
		catalog.spies = 2
		e, _, _ := startedEngine(t, catalog, "A", "B", "C", "D")
		spies, _ := splitRoles(e)
		require.Len(t, spies, 2)

		correct, err := e.GuessLocation(spies[0], "Nowhere")
		require.NoError(t, err)
		assert.False(t, correct)
		result, _ := e.Result()
		assert.Equal(t, ResultNone, result, "1 spy of 3 active is not a majority")
		assert.False(t, e.VoteForPlayer(spies[0]))

		correct, err = e.GuessLocation(spies[1], "Nowhere")
		require.NoError(t, err)
		assert.False(t, correct)

		result, reason := e.Result()
		assert.Equal(t, ResultCivilianWins, result)
		assert.Equal(t, ReasonAllSpiesEliminated, reason)
	})

	t.Run("wrong guess can still leave a spy majority", func(t *testing.T) {
		catalog := newStubCatalog()
		catalog.spies = 2
		e, _, _ := startedEngine(t, catalog, "A", "B", "C")
		spies, _ := splitRoles(e)

		_, err := e.GuessLocation(spies[0], "Nowhere")
		require.NoError(t, err)

		result, reason := e.Result()
		assert.Equal(t, ResultSpyWins, result)
		assert.Equal(t, ReasonSpyMajority, reason)
	})

	t.Run("guess is case sensitive", func(t *testing.T) {
		e, _, _ := startedEngine(t, newStubCatalog(), "A", "B", "C", "D", "E")
		spies, _ := splitRoles(e)

		correct, err := e.GuessLocation(spies[0], "  "+e.CurrentLocation())
		require.NoError(t, err)
		assert.False(t, correct)

		result, _ := e.Result()
		assert.Equal(t, ResultCivilianWins, result)
	})

	t.Run("civilians cannot guess", func(t *testing.T) {
		e, _, _ := startedEngine(t, newStubCatalog(), "A", "B", "C")
		_, civilians := splitRoles(e)

		_, err := e.GuessLocation(civilians[0], e.CurrentLocation())
		assert.ErrorIs(t, err, ErrNotSpy)
		assert.Equal(t, 0, e.EliminatedPlayerCount())

		_, err = e.GuessLocation("nobody", "Beach")
		assert.ErrorIs(t, err, ErrNotSpy)
	})

	t.Run("no guesses after the game ends", func(t *testing.T) {
		catalog := newStubCatalog()
		catalog.spies = 2
		e, _, _ := startedEngine(t, catalog, "A", "B", "C", "D", "E", "F")
		spies, _ := splitRoles(e)

		_, err := e.GuessLocation(spies[0], e.CurrentLocation())
		require.NoError(t, err)

		_, err = e.GuessLocation(spies[1], e.CurrentLocation())
		assert.ErrorIs(t, err, ErrGameOver)
	})
}

func TestGameEnd_FirstResultWins(t *testing.T) {
	var ended []Event
	e, clock := newTestEngine(t, newStubCatalog(), WithRules(shortRules(2)), WithListener(func(ev Event) {
		if ev.Type == EventGameEnded {
			ended = append(ended, ev)
		}
	}))
	addPlayers(t, e, "A", "B", "C", "D")
	e.ToggleCategory("outdoors")
	require.NoError(t, e.StartGame())
	require.NoError(t, e.StartTimer())
	ticker := clock.latestTicker(t)

	spies, _ := splitRoles(e)
	require.NoError(t, e.EliminatePlayer(spies[0]))

	// The countdown was stopped with the game, so a late tick is discarded.
	ticker.trySend()

	result, reason := e.Result()
	assert.Equal(t, ResultCivilianWins, result)
	assert.Equal(t, ReasonAllSpiesEliminated, reason)
	require.Len(t, ended, 1)
	assert.Equal(t, ResultCivilianWins, ended[0].Result)
	assert.Equal(t, ReasonAllSpiesEliminated, ended[0].Reason)
}

func TestEliminatePlayer_Events(t *testing.T) {
	var types []EventType
	e, _ := newTestEngine(t, newStubCatalog(), WithListener(func(ev Event) {
		types = append(types, ev.Type)
	}))
	addPlayers(t, e, "A", "B", "C")
	e.ToggleCategory("outdoors")
	require.NoError(t, e.StartGame())
	spies, _ := splitRoles(e)

	types = nil
	require.NoError(t, e.EliminatePlayer(spies[0]))

	assert.Equal(t, []EventType{EventPlayerEliminated, EventGameEnded}, types)
}
