package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"casualgames/internal/game"
	"casualgames/internal/session"
)

// Message types. Clients send join, action and start; the server sends
// state and error.
const (
	msgJoin   = "join"
	msgAction = "action"
	msgStart  = "start"
	msgState  = "state"
	msgError  = "error"
)

// sendBuffer is the per-connection outbox size. A slow tab drops messages
// rather than stalling the session.
const sendBuffer = 64

// WSMessage is the JSON envelope for WebSocket messages.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	PlayerID string `json:"playerId"`
}

type actionPayload struct {
	Action game.Action `json:"action"`
}

type statePayload struct {
	State        any                 `json:"state"`
	ValidActions []game.Action       `json:"validActions"`
	SessionInfo  session.Info        `json:"sessionInfo"`
	Results      []game.PlayerResult `json:"results,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func envelope(msgType string, payload any) []byte {
	p, _ := json.Marshal(payload)
	msg, _ := json.Marshal(WSMessage{Type: msgType, Payload: p})
	return msg
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	sess, ok := s.manager.Get(code)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // the portal is served locally
	})
	if err != nil {
		log.Warn().Err(err).Str("session", code).Msg("websocket accept")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	playerID, err := readJoin(ctx, conn)
	if err != nil {
		conn.Write(ctx, websocket.MessageText, envelope(msgError, errorPayload{Message: err.Error()}))
		return
	}

	send := make(chan []byte, sendBuffer)
	if !sess.ConnectPlayer(playerID, send) {
		if err := sess.AddPlayer(playerID); err != nil {
			conn.Write(ctx, websocket.MessageText, envelope(msgError, errorPayload{Message: err.Error()}))
			return
		}
		sess.ConnectPlayer(playerID, send)
	}
	logger := log.With().Str("session", code).Str("player", playerID).Logger()
	logger.Debug().Msg("player joined")
	s.broadcastState(sess)

	pumpCtx, stop := context.WithCancel(ctx)
	defer stop()
	go writePump(pumpCtx, conn, send)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			push(send, msgError, errorPayload{Message: "invalid message"})
			continue
		}
		s.handleMessage(sess, playerID, send, msg)
	}

	// the seat stays so the tab can reconnect
	logger.Debug().Msg("player disconnected")
}

// readJoin reads the mandatory first message and returns the player id.
func readJoin(ctx context.Context, conn *websocket.Conn) (string, error) {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return "", err
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != msgJoin {
		return "", errors.New("first message must be a join")
	}
	var join joinPayload
	if err := json.Unmarshal(msg.Payload, &join); err != nil || join.PlayerID == "" {
		return "", errors.New("invalid join payload")
	}
	return join.PlayerID, nil
}

func writePump(ctx context.Context, conn *websocket.Conn, send <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-send:
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(sess *session.Session, playerID string, send chan []byte, msg WSMessage) {
	switch msg.Type {
	case msgAction:
		var ap actionPayload
		if err := json.Unmarshal(msg.Payload, &ap); err != nil {
			push(send, msgError, errorPayload{Message: "invalid action payload"})
			return
		}
		err := s.manager.Apply(sess, playerID, ap.Action)
		switch {
		case err == nil:
			s.broadcastState(sess)
		case errors.Is(err, game.ErrRejected):
			// only the sender needs to redraw
			push(send, msgState, snapshot(sess, playerID))
		default:
			push(send, msgError, errorPayload{Message: err.Error()})
		}

	case msgStart:
		if sess.Info().HostID != playerID {
			push(send, msgError, errorPayload{Message: "only the host can start"})
			return
		}
		if err := s.manager.Start(sess); err != nil {
			push(send, msgError, errorPayload{Message: err.Error()})
			return
		}
		s.broadcastState(sess)

	default:
		push(send, msgError, errorPayload{Message: "unknown message type: " + msg.Type})
	}
}

// snapshot renders the session for one player.
func snapshot(sess *session.Session, playerID string) statePayload {
	sess.RLock()
	defer sess.RUnlock()
	sp := statePayload{SessionInfo: sess.InfoLocked()}
	if sess.Match == nil || sess.Status == session.StatusWaiting {
		return sp
	}
	// encode under the lock; views may share slices with the match
	state, err := json.Marshal(sess.Match.State(playerID))
	if err != nil {
		log.Error().Err(err).Str("session", sess.Code).Msg("encode state")
	}
	sp.State = json.RawMessage(state)
	sp.ValidActions = sess.Match.ValidActions(playerID)
	if sess.Match.IsOver() {
		sp.Results = sess.Match.Results()
	}
	return sp
}

// broadcastState sends every connected player their own view.
func (s *Server) broadcastState(sess *session.Session) {
	for _, pid := range sess.Info().Players {
		if p := sess.GetPlayer(pid); p != nil {
			push(p.Send, msgState, snapshot(sess, pid))
		}
	}
}

// push queues a message without blocking.
func push(send chan []byte, msgType string, payload any) {
	select {
	case send <- envelope(msgType, payload):
	default:
	}
}
