package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scramble/internal/game"
	"github.com/robalobadob/scramble/internal/store"
)

const (
	wsWriteWait    = 5 * time.Second
	wsMaxMessage   = 1 << 12
	wsErrorBacklog = 8
)

// Envelope is every message on the socket.
//
// Server → client: {"type":"state","payload":Snapshot}
//                  {"type":"guess","payload":GuessResult}
//                  {"type":"error","payload":ErrorResponse}
// Client → server: {"type":"start"} {"type":"skip"} {"type":"stop"}
//                  {"type":"guess","payload":{"guess":"..."}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.opts.ClientOrigin
		},
	}
}

// handleWS streams every snapshot of the session and accepts commands.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("ws upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	out := make(chan Envelope, wsErrorBacklog)
	done := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.wsWriter(conn, sess.Snapshot(), updates, out, done)
	}()

	s.wsReader(conn, sess, out)
	close(done)
	<-writerDone
}

// wsWriter is the only goroutine writing to conn.
func (s *Server) wsWriter(conn *websocket.Conn, first game.Snapshot, updates <-chan game.Snapshot, out <-chan Envelope, done <-chan struct{}) {
	write := func(env Envelope) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(env); err != nil {
			log.Debug().Err(err).Msg("ws write")
			return false
		}
		return true
	}

	if !write(envelope("state", first)) {
		return
	}
	for {
		select {
		case snap, ok := <-updates:
			if !ok || !write(envelope("state", snap)) {
				return
			}
		case env := <-out:
			if !write(env) {
				return
			}
		case <-done:
			return
		case <-s.base.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWait))
			_ = conn.Close()
			return
		}
	}
}

// wsReader applies client commands until the connection drops.
func (s *Server) wsReader(conn *websocket.Conn, sess *store.Session, out chan<- Envelope) {
	for {
		var cmd Envelope
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("gameId", sess.ID).Msg("ws read")
			}
			return
		}
		if env, ok := s.wsCommand(sess, cmd); ok {
			select {
			case out <- env:
			default:
				log.Warn().Str("gameId", sess.ID).Msg("ws reply dropped")
			}
		}
	}
}

// wsCommand runs one command. State changes reach the client through the
// subscription; only guess results and errors are replied directly.
func (s *Server) wsCommand(sess *store.Session, cmd Envelope) (Envelope, bool) {
	switch cmd.Type {
	case "start":
		if _, err := sess.Restart(s.base, s.opts.TickInterval); err != nil {
			return errorEnvelope(err), true
		}
	case "guess":
		var p guessReq
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return envelope("error", ErrorResponse{Error: "bad_json", Message: err.Error()}), true
		}
		res, err := s.guess(sess, p.Guess)
		if err != nil {
			return errorEnvelope(err), true
		}
		return envelope("guess", res), true
	case "skip":
		if _, err := sess.Do(func(e *game.Engine) (game.Snapshot, error) { return e.Skip() }); err != nil {
			return errorEnvelope(err), true
		}
	case "stop":
		s.stop(sess)
	default:
		return envelope("error", ErrorResponse{Error: "bad_command", Message: "unknown command " + cmd.Type}), true
	}
	return Envelope{}, false
}

func envelope(typ string, v any) Envelope {
	b, _ := json.Marshal(v)
	return Envelope{Type: typ, Payload: b}
}

func errorEnvelope(err error) Envelope {
	_, code, msg := errorFor(err)
	return envelope("error", ErrorResponse{Error: code, Message: msg})
}
