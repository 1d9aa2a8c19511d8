package storage

import (
	"database/sql"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreate(t *testing.T, s *Store, code, gameType string) {
	t.Helper()
	if err := s.CreateSession(code, gameType, "", ""); err != nil {
		t.Fatalf("create session %s: %v", code, err)
	}
}

func TestCreateSession(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "abc123", "tictactoe")
	// Duplicate code should error
	if err := s.CreateSession("abc123", "sudoku", "", ""); err == nil {
		t.Fatal("expected error on duplicate code")
	}
}

func TestGetSession(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateSession("abc123", "sudoku", `{"difficulty":"hard"}`, "lucky"); err != nil {
		t.Fatalf("create session: %v", err)
	}

	row, err := s.GetSession("abc123")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if row.Code != "abc123" || row.GameType != "sudoku" {
		t.Fatalf("unexpected row %+v", row)
	}
	if row.Status != "waiting" {
		t.Fatalf("expected status waiting, got %s", row.Status)
	}
	if row.Options != `{"difficulty":"hard"}` || row.Seed != "lucky" {
		t.Fatalf("options/seed not stored: %+v", row)
	}
	if row.CreatedAt.IsZero() {
		t.Fatal("expected non-zero CreatedAt")
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSession("nonexistent")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateSessionStatus(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "abc123", "tictactoe")

	if err := s.UpdateSessionStatus("abc123", "playing"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	row, err := s.GetSession("abc123")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if row.Status != "playing" {
		t.Fatalf("expected playing, got %s", row.Status)
	}
}

func TestListSessions(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "aaa", "tictactoe")
	mustCreate(t, s, "bbb", "2048")
	mustCreate(t, s, "ccc", "dots")
	s.UpdateSessionStatus("bbb", "playing")

	all, err := s.ListSessions("")
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 3 || all[0].Code != "ccc" {
		t.Fatalf("expected 3 sessions newest first, got %+v", all)
	}
	waiting, err := s.ListSessions("waiting")
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(waiting) != 2 {
		t.Fatalf("expected 2 waiting sessions, got %d", len(waiting))
	}
	for _, row := range waiting {
		if row.Code == "bbb" {
			t.Fatalf("playing session listed as waiting")
		}
	}
}

func TestSaveMatchStateUpsert(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "abc123", "tictactoe")

	if err := s.SaveMatchState("abc123", `{"v":1}`); err != nil {
		t.Fatalf("save match state: %v", err)
	}
	s.SaveMatchState("abc123", `{"v":2}`)

	got, err := s.GetMatchState("abc123")
	if err != nil {
		t.Fatalf("get match state: %v", err)
	}
	if got != `{"v":2}` {
		t.Fatalf("expected upserted value, got %s", got)
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "abc123", "tictactoe")
	s.SaveMatchState("abc123", `{"v":1}`)

	if err := s.DeleteSession("abc123"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := s.GetSession("abc123"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows after delete, got %v", err)
	}
	if _, err := s.GetMatchState("abc123"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for match state after delete, got %v", err)
	}
}

func TestKV(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	if n, err := s.GetInt("missing"); err != nil || n != 0 {
		t.Fatalf("GetInt(missing) = %d, %v", n, err)
	}
	s.Set("bestScore", "not a number")
	if n, err := s.GetInt("bestScore"); err != nil || n != 0 {
		t.Fatalf("unparsable value should read 0, got %d, %v", n, err)
	}
	s.Set("bestScore", "1024")
	if n, _ := s.GetInt("bestScore"); n != 1024 {
		t.Fatalf("GetInt = %d", n)
	}
}

func TestBestScore(t *testing.T) {
	s := newTestStore(t)
	s.Set(BestScoreKey, "100")

	b := NewBestScore(s)
	if b.Best() != 100 {
		t.Fatalf("expected stored best 100, got %d", b.Best())
	}
	b.Record(50)
	b.Record(300)
	if b.Best() != 300 {
		t.Fatalf("expected 300, got %d", b.Best())
	}
	if n, _ := s.GetInt(BestScoreKey); n != 300 {
		t.Fatalf("expected 300 persisted, got %d", n)
	}
	if NewBestScore(s).Best() != 300 {
		t.Fatalf("expected reload to see 300")
	}
}
