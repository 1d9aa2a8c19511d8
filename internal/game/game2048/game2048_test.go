package game2048

import (
	"errors"
	"fmt"
	"testing"

	"casualgames/internal/game"
	"casualgames/internal/rng"
)

func newTestMatch(seed uint64) *Match {
	g := Game2048{}
	return g.NewMatch(game.MatchConfig{PlayerIDs: []string{"alice"}, Source: rng.New(seed)}).(*Match)
}

func setBoard(m *Match, rows [Size][Size]int) {
	m.Board = Board{}
	for r := range rows {
		for c, v := range rows[r] {
			if v != 0 {
				m.Board[r][c] = &Tile{ID: fmt.Sprintf("t%d%d", r, c), Value: v}
			}
		}
	}
}

func values(b Board) [Size][Size]int {
	var out [Size][Size]int
	for r := range b {
		for c, t := range b[r] {
			if t != nil {
				out[r][c] = t.Value
			}
		}
	}
	return out
}

func tileCount(b Board) (n int, fresh []*Tile) {
	for r := range b {
		for _, t := range b[r] {
			if t != nil {
				n++
				if t.New {
					fresh = append(fresh, t)
				}
			}
		}
	}
	return n, fresh
}

func TestNewGameSpawnsTwoTiles(t *testing.T) {
	m := newTestMatch(1)
	n, fresh := tileCount(m.Board)
	if n != 2 || len(fresh) != 2 {
		t.Fatalf("expected 2 new tiles, got %d (%d new)", n, len(fresh))
	}
	for _, tile := range fresh {
		if tile.Value != 2 && tile.Value != 4 {
			t.Fatalf("unexpected spawn value %d", tile.Value)
		}
		if tile.ID == "" {
			t.Fatal("spawned tile has no id")
		}
	}
	if m.Score != 0 || m.GameOver || m.Won {
		t.Fatalf("unexpected fresh state %+v", m)
	}
}

func TestMoveLeftMerges(t *testing.T) {
	m := newTestMatch(1)
	setBoard(m, [Size][Size]int{{2, 2, 0, 0}})
	res := m.Move(Left)
	if !res.Moved || res.ScoreDelta != 4 {
		t.Fatalf("unexpected result %+v", res)
	}
	if m.Score != 4 {
		t.Fatalf("expected score 4, got %d", m.Score)
	}
	if m.Board[0][0] == nil || m.Board[0][0].Value != 4 || !m.Board[0][0].Merged {
		t.Fatalf("expected merged 4 at the left edge, got %v", values(m.Board))
	}
	n, fresh := tileCount(m.Board)
	if n != 2 || len(fresh) != 1 {
		t.Fatalf("expected merged tile plus one spawn, got %d tiles (%d new)", n, len(fresh))
	}
}

func TestNoOpMove(t *testing.T) {
	m := newTestMatch(1)
	setBoard(m, [Size][Size]int{{2, 4, 0, 0}, {8, 0, 0, 0}})
	before := values(m.Board)
	res := m.Move(Left)
	if res.Moved {
		t.Fatal("expected no movement")
	}
	if values(m.Board) != before || m.Score != 0 {
		t.Fatal("no-op move changed the board")
	}
	if err := m.ApplyAction("alice", game.NewAction(ActionMove, movePayload{Direction: Up})); !errors.Is(err, game.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestMergeRules(t *testing.T) {
	tests := []struct {
		name  string
		row   [Size]int
		dir   Direction
		want  [Size]int
		score int
	}{
		{"no chain merge", [Size]int{2, 2, 4, 0}, Left, [Size]int{4, 4, 0, 0}, 4},
		{"two pairs", [Size]int{2, 2, 2, 2}, Left, [Size]int{4, 4, 0, 0}, 8},
		{"leading pair merges first", [Size]int{2, 2, 2, 0}, Right, [Size]int{0, 0, 2, 4}, 4},
		{"slide only", [Size]int{0, 0, 0, 8}, Left, [Size]int{8, 0, 0, 0}, 0},
		{"blocked by unequal", [Size]int{0, 2, 4, 8}, Left, [Size]int{2, 4, 8, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Board{}
			for c, v := range tt.row {
				if v != 0 {
					b[0][c] = &Tile{ID: fmt.Sprint(c), Value: v}
				}
			}
			moved, gained, _ := slide(&b, tt.dir)
			if !moved {
				t.Fatal("expected movement")
			}
			if got := values(b)[0]; got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if gained != tt.score {
				t.Fatalf("expected %d points, got %d", tt.score, gained)
			}
		})
	}
}

func TestMoveVertical(t *testing.T) {
	b := Board{}
	b[0][1] = &Tile{ID: "a", Value: 2}
	b[3][1] = &Tile{ID: "b", Value: 2}
	moved, gained, _ := slide(&b, Down)
	if !moved || gained != 4 {
		t.Fatalf("expected merge, got moved=%v gained=%d", moved, gained)
	}
	if b[3][1] == nil || b[3][1].Value != 4 || b[0][1] != nil {
		t.Fatalf("unexpected column %v", values(b))
	}
}

func TestWinBlocksUntilContinue(t *testing.T) {
	m := newTestMatch(2)
	setBoard(m, [Size][Size]int{{1024, 1024, 0, 0}})
	res := m.Move(Left)
	if !res.Won || !m.Won {
		t.Fatal("expected win on reaching 2048")
	}
	if !m.IsOver() {
		t.Fatal("won game should be over until continued")
	}
	if m.Move(Right).Moved || m.Move(Down).Moved {
		t.Fatal("moves should be blocked after the win")
	}
	if err := m.ApplyAction("alice", game.Action{Type: ActionContinue}); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if m.IsOver() || !m.Won {
		t.Fatal("continue should reopen play and keep the win")
	}
	if err := m.ApplyAction("alice", game.Action{Type: ActionContinue}); !errors.Is(err, game.ErrRejected) {
		t.Fatal("second continue should be rejected")
	}
}

func TestHasValidMoves(t *testing.T) {
	m := newTestMatch(1)
	setBoard(m, [Size][Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	if HasValidMoves(m.Board) {
		t.Fatal("checkerboard has no moves")
	}
	m.Board[3][3].Value = 4
	if !HasValidMoves(m.Board) {
		t.Fatal("equal neighbours should allow a move")
	}
}

func TestGameOverBlocksMoves(t *testing.T) {
	m := newTestMatch(1)
	setBoard(m, [Size][Size]int{{2, 0, 0, 0}})
	m.GameOver = true
	if m.Move(Right).Moved {
		t.Fatal("moves should be blocked after game over")
	}
	if len(m.Results()) != 1 {
		t.Fatal("expected a result once over")
	}
}

func TestBestScoreRecorded(t *testing.T) {
	keeper := &MemoryKeeper{}
	keeper.Record(10)
	g := Game2048{Keeper: keeper}
	m := g.NewMatch(game.MatchConfig{Source: rng.New(3)}).(*Match)
	if m.BestScore != 10 {
		t.Fatalf("expected best 10 from keeper, got %d", m.BestScore)
	}
	setBoard(m, [Size][Size]int{{8, 8, 0, 0}})
	m.Score = 5
	m.Move(Left)
	if m.BestScore != 21 || keeper.Best() != 21 {
		t.Fatalf("expected best 21, got %d / %d", m.BestScore, keeper.Best())
	}
	m.NewGame()
	if m.BestScore != 21 || m.Score != 0 {
		t.Fatal("new game keeps the best score and clears the score")
	}
}

func TestSeededGamesMatch(t *testing.T) {
	a, b := newTestMatch(42), newTestMatch(42)
	for _, d := range []Direction{Left, Up, Right, Down, Left, Up} {
		a.Move(d)
		b.Move(d)
	}
	if values(a.Board) != values(b.Board) {
		t.Fatal("same seed produced different boards")
	}
	for r := range a.Board {
		for c := range a.Board[r] {
			if ta, tb := a.Board[r][c], b.Board[r][c]; ta != nil && ta.ID != tb.ID {
				t.Fatal("same seed produced different tile ids")
			}
		}
	}
}

func TestValidActionsListsMovableDirections(t *testing.T) {
	m := newTestMatch(1)
	setBoard(m, [Size][Size]int{{2, 0, 0, 0}})
	dirs := map[Direction]bool{}
	for _, a := range m.ValidActions("alice") {
		if a.Type == ActionMove {
			var p movePayload
			a.Decode(&p)
			dirs[p.Direction] = true
		}
	}
	if len(dirs) != 2 || !dirs[Right] || !dirs[Down] {
		t.Fatalf("expected right and down, got %v", dirs)
	}
}

func TestApplyActionErrors(t *testing.T) {
	m := newTestMatch(1)
	if err := m.ApplyAction("alice", game.NewAction(ActionMove, movePayload{Direction: "sideways"})); err == nil || errors.Is(err, game.ErrRejected) {
		t.Fatalf("expected a plain error for a bad direction, got %v", err)
	}
	if err := m.ApplyAction("alice", game.Action{Type: "jump"}); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	m := newTestMatch(7)
	m.Move(Left)
	m.Move(Up)
	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	restored := Game2048{}.NewMatch(game.MatchConfig{Source: rng.New(1)}).(*Match)
	if err := restored.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if values(restored.Board) != values(m.Board) || restored.Score != m.Score {
		t.Fatal("round trip mismatch")
	}
}
