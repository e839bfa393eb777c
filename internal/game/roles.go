package game

import (
	"math/rand"
)

// Result is the outcome of a finished game
type Result string

const (
	ResultNone         Result = ""
	ResultSpyWins      Result = "spy-wins"
	ResultCivilianWins Result = "civilian-wins"
)

// End-of-game reasons
const (
	ReasonTimeExpired        = "Time ran out - spies avoided detection"
	ReasonAllSpiesEliminated = "All spies have been eliminated"
	ReasonSpyMajority        = "Spies gained majority control"
	ReasonLocationGuessed    = "Spy correctly identified the location"
)

// assignRoles shuffles the roster positions, deals the spy role to the first
// spyCount of them and makes everyone else a civilian. It returns the spy ids.
func assignRoles(players []*Player, spyCount int, rng *rand.Rand) map[string]struct{} {
	count := len(players)
	if spyCount > count {
		spyCount = count
	}
	if spyCount < 0 {
		spyCount = 0
	}

	order := rng.Perm(count)
	spies := make(map[string]struct{}, spyCount)
	for _, idx := range order[:spyCount] {
		spies[players[idx].ID] = struct{}{}
	}

	for _, p := range players {
		role := RoleCivilian
		if _, ok := spies[p.ID]; ok {
			role = RoleSpy
		}
		p.resetForGame(role)
	}
	return spies
}
