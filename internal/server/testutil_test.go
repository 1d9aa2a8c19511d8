package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"nhooyr.io/websocket"

	"casualgames/internal/game"
	"casualgames/internal/game/dots"
	"casualgames/internal/game/game2048"
	"casualgames/internal/game/memory"
	"casualgames/internal/game/rps"
	"casualgames/internal/game/sliding"
	"casualgames/internal/game/sudoku"
	"casualgames/internal/game/tictactoe"
	"casualgames/internal/game/wordsearch"
	"casualgames/internal/sched"
	"casualgames/internal/session"
	"casualgames/internal/storage"
)

// --- Test environment ---

type testEnv struct {
	ts     *httptest.Server
	mgr    *session.Manager
	clock  *sched.Manual
	scores *storage.BestScore
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	scores := storage.NewBestScore(store)
	reg := game.NewRegistry()
	reg.Register(tictactoe.TicTacToe{})
	reg.Register(game2048.Game2048{Keeper: scores})
	reg.Register(sudoku.Sudoku{})
	reg.Register(dots.DotsAndBoxes{})
	reg.Register(memory.MemoryMatch{})
	reg.Register(wordsearch.WordSearch{})
	reg.Register(sliding.SlidingPuzzle{})
	reg.Register(rps.RockPaperScissors{})
	clock := sched.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	mgr := session.NewManager(reg, store, clock)

	webFS := fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte("<html><body>test</body></html>")},
	}
	srv := New(reg, mgr, scores, webFS)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, mgr: mgr, clock: clock, scores: scores}
}

// --- Context helpers ---

func timeoutCtx(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// --- REST API helpers ---

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected %d, got %d", want, resp.StatusCode)
	}
}

func createSessionViaAPI(t *testing.T, ts *httptest.Server, req createSessionRequest) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/sessions", req)
	expectStatus(t, resp, http.StatusCreated)
	return decode[createSessionResponse](t, resp).Code
}

// startedSession creates a session for alice and starts it.
func startedSession(t *testing.T, ts *httptest.Server, gameType, options string) string {
	t.Helper()
	req := createSessionRequest{GameType: gameType, PlayerID: "alice", Start: true}
	if options != "" {
		req.Options = json.RawMessage(options)
	}
	return createSessionViaAPI(t, ts, req)
}

func applyViaAPI(t *testing.T, ts *httptest.Server, code, playerID string, a game.Action) *http.Response {
	t.Helper()
	return postJSON(t, ts.URL+"/api/sessions/"+code+"/actions", applyActionRequest{PlayerID: playerID, Action: a})
}

// --- WebSocket helpers ---

func wsURL(ts *httptest.Server, code string) string {
	return strings.Replace(ts.URL, "http://", "ws://", 1) + "/api/sessions/" + code + "/ws"
}

// wsConnect dials a WebSocket, sends a join message, and returns the connection.
// The caller is responsible for closing the connection.
func wsConnect(t *testing.T, ts *httptest.Server, code, playerID string) *websocket.Conn {
	t.Helper()
	ctx, cancel := timeoutCtx(t)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL(ts, code), nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	wsSend(ctx, t, conn, "join", joinPayload{PlayerID: playerID})
	return conn
}

// wsSend marshals and sends a typed WebSocket message, calling t.Fatal on error.
func wsSend(ctx context.Context, t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	p, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	data, err := json.Marshal(WSMessage{Type: msgType, Payload: p})
	if err != nil {
		t.Fatalf("marshal ws message: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("ws write: %v", err)
	}
}

// wsRead reads and unmarshals a WebSocket message, calling t.Fatal on error.
func wsRead(ctx context.Context, t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("ws read: %v", err)
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal ws message: %v", err)
	}
	return msg
}

// readState reads a WebSocket message and expects it to be a "state" message.
func readState(ctx context.Context, t *testing.T, conn *websocket.Conn) statePayload {
	t.Helper()
	msg := wsRead(ctx, t, conn)
	if msg.Type != "state" {
		t.Fatalf("expected state message, got %q: %s", msg.Type, string(msg.Payload))
	}
	var sp statePayload
	if err := json.Unmarshal(msg.Payload, &sp); err != nil {
		t.Fatalf("unmarshal state payload: %v", err)
	}
	return sp
}

// readError reads a WebSocket message and expects it to be an "error" message.
func readError(ctx context.Context, t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	msg := wsRead(ctx, t, conn)
	if msg.Type != "error" {
		t.Fatalf("expected error message, got %q: %s", msg.Type, string(msg.Payload))
	}
	var ep errorPayload
	if err := json.Unmarshal(msg.Payload, &ep); err != nil {
		t.Fatalf("unmarshal error payload: %v", err)
	}
	return ep.Message
}

// --- Game helpers ---

// moveAction builds a tic-tac-toe move.
func moveAction(cell int) game.Action {
	return game.NewAction(tictactoe.ActionMove, map[string]int{"cell": cell})
}

// stateMap extracts State from a statePayload as map[string]any, failing the test if
// the type assertion fails.
func stateMap(t *testing.T, sp statePayload) map[string]any {
	t.Helper()
	m, ok := sp.State.(map[string]any)
	if !ok {
		t.Fatalf("expected State to be map[string]any, got %T", sp.State)
	}
	return m
}

// board returns the tic-tac-toe board from a state payload.
func board(t *testing.T, sp statePayload) []string {
	t.Helper()
	raw, ok := stateMap(t, sp)["board"].([]any)
	if !ok {
		t.Fatalf("state has no board: %v", sp.State)
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func marks(cells []string) int {
	n := 0
	for _, c := range cells {
		if c != "" {
			n++
		}
	}
	return n
}
