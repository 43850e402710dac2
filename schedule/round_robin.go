// Package schedule generates round-robin pairings. It is pure: the caller
// supplies the ordered participant set and persists the result.
package schedule

import (
	"errors"

	"github.com/Dosada05/league-engine/models"
)

// ErrInsufficientParticipants is returned when fewer than two participants
// are supplied.
var ErrInsufficientParticipants = errors.New("not enough participants to generate a schedule (minimum 2)")

// byeSlot pads an odd participant count; pairings involving it are discarded,
// never emitted as matches.
const byeSlot = "__BYE__"

// Pairing is a single generated fixture. Matchday numbers are 1-based and
// contiguous; in double mode the second leg continues after the first
// (matchdays n..2n-1 for a first leg of n rounds).
type Pairing struct {
	Matchday int
	PlayerA  string
	PlayerB  string
}

// Generate produces the full round-robin fixture list for the ordered
// participant set using the circle method: fix the first slot, pair the front
// half against the reversed back half, rotate the rest by one, repeat for n-1
// rounds per leg. Double round-robin mode plays a second leg with home and
// away swapped. Output is deterministic for identical input.
func Generate(participants []string, mode models.ScheduleMode) ([]Pairing, error) {
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	legs := 1
	if mode == models.ScheduleDoubleRoundRobin {
		legs = 2
	}

	arr := make([]string, len(participants))
	copy(arr, participants)
	if len(arr)%2 == 1 {
		arr = append(arr, byeSlot)
	}

	n := len(arr)
	half := n / 2
	roundsPerLeg := n - 1

	pairings := make([]Pairing, 0, legs*roundsPerLeg*half)
	for r := 0; r < roundsPerLeg*legs; r++ {
		roundIndex := r % roundsPerLeg
		leg := r / roundsPerLeg

		for i := 0; i < half; i++ {
			a, b := arr[i], arr[n-1-i]
			if a == byeSlot || b == byeSlot {
				continue
			}
			if leg == 1 {
				a, b = b, a
			}
			pairings = append(pairings, Pairing{
				Matchday: leg*roundsPerLeg + roundIndex + 1,
				PlayerA:  a,
				PlayerB:  b,
			})
		}

		// Rotate everything but the fixed first slot by one position.
		last := arr[n-1]
		copy(arr[2:], arr[1:n-1])
		arr[1] = last
	}

	return pairings, nil
}
