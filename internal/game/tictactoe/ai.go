package tictactoe

var (
	corners = []int{0, 2, 6, 8}
	sides   = []int{1, 3, 5, 7}
	// corner -> the corner across the centre
	oppositeCorners = [][2]int{{0, 8}, {2, 6}, {6, 2}, {8, 0}}
)

const center = 4

// BestMove picks the move for symbol using the classic priority list:
// win, block, fork, block a fork, centre, opposite corner, corner, side.
// Candidates are tried in index order. It reports false on a full board.
func BestMove(b [9]string, symbol string) (int, bool) {
	opp := other(symbol)
	var open []int
	for i, v := range b {
		if v == "" {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return 0, false
	}

	for _, i := range open {
		if wins(b, i, symbol) {
			return i, true
		}
	}
	for _, i := range open {
		if wins(b, i, opp) {
			return i, true
		}
	}
	for _, i := range open {
		if forks(b, i, symbol) {
			return i, true
		}
	}

	var oppForks []int
	for _, i := range open {
		if forks(b, i, opp) {
			oppForks = append(oppForks, i)
		}
	}
	switch {
	case len(oppForks) == 1:
		return oppForks[0], true
	case len(oppForks) > 1:
		if b[center] == "" {
			return center, true
		}
		for _, i := range sides {
			if b[i] == "" {
				return i, true
			}
		}
	}

	if b[center] == "" {
		return center, true
	}
	for _, pair := range oppositeCorners {
		if b[pair[0]] == opp && b[pair[1]] == "" {
			return pair[1], true
		}
	}
	for _, i := range corners {
		if b[i] == "" {
			return i, true
		}
	}
	for _, i := range sides {
		if b[i] == "" {
			return i, true
		}
	}
	return open[0], true
}

func wins(b [9]string, cell int, symbol string) bool {
	b[cell] = symbol
	return winner(b) == symbol
}

// threats counts lines holding two of symbol and one empty cell.
func threats(b [9]string, symbol string) int {
	n := 0
	for _, line := range winLines {
		own, empty := 0, 0
		for _, i := range line {
			switch b[i] {
			case symbol:
				own++
			case "":
				empty++
			}
		}
		if own == 2 && empty == 1 {
			n++
		}
	}
	return n
}

func forks(b [9]string, cell int, symbol string) bool {
	b[cell] = symbol
	return threats(b, symbol) >= 2
}
