package dots

import "casualgames/internal/rng"

// ChooseMove picks the computer's edge: one that closes a box if any,
// else a safe edge that leaves no box with three sides, else any edge.
// Ties are broken at random. It reports false when every edge is drawn.
func ChooseMove(l Lines, src rng.Source) (Move, bool) {
	moves := l.Open()
	if len(moves) == 0 {
		return Move{}, false
	}
	var closing, safe []Move
	for _, mv := range moves {
		boxes := l.touching(mv)
		closes, isSafe := false, true
		for _, b := range boxes {
			switch l.sides(b[0], b[1]) {
			case 3:
				closes = true
			case 2:
				isSafe = false
			}
		}
		if closes {
			closing = append(closing, mv)
		}
		if isSafe {
			safe = append(safe, mv)
		}
	}
	switch {
	case len(closing) > 0:
		return rng.Pick(src, closing), true
	case len(safe) > 0:
		return rng.Pick(src, safe), true
	}
	return rng.Pick(src, moves), true
}
