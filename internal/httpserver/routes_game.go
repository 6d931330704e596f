// internal/httpserver/routes_game.go
//
// HTTP routes for playing a round. Exposes, under /game:
//   - POST /game/new   → create a session, returns its token
//   - POST /game/start → start (or restart) the round and its clock
//   - POST /game/guess → submit a guess
//   - POST /game/skip  → skip the current word
//   - POST /game/stop  → end the round early
//   - GET  /game/state → current snapshot
//
// Every route except /game/new needs the session token
// (Authorization: Bearer, ?token= or the scramble_token cookie).

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/scramble/internal/daily"
	"github.com/robalobadob/scramble/internal/game"
	"github.com/robalobadob/scramble/internal/store"
	"github.com/robalobadob/scramble/internal/words"
)

// mountGame registers all /game routes except the socket.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNew)
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession())
		r.Post("/game/start", s.handleStart)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/game/skip", s.handleSkip)
		r.Post("/game/stop", s.handleStop)
		r.Get("/game/state", s.handleState)
	})
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode store.Mode `json:"mode"` // "classic" (default) | "daily"
}
type newGameRes struct {
	GameID    string        `json:"gameId"`
	Mode      store.Mode    `json:"mode"`
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expiresAt"` // unix seconds
	Snapshot  game.Snapshot `json:"snapshot"`
}

// handleNew creates a session with its own engine loaded with the catalog.
// The round itself starts with POST /game/start.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	sess, err := s.newSession(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_mode", err.Error())
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "could not create game")
		return
	}

	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed", "could not create game")
		return
	}
	s.setTokenCookie(w, tok, exp)

	hlog.FromRequest(r).Info().Str("gameId", sess.ID).Str("mode", string(sess.Mode)).Msg("game created")
	writeJSON(w, http.StatusCreated, newGameRes{
		GameID:    sess.ID,
		Mode:      sess.Mode,
		Token:     tok,
		ExpiresAt: exp.Unix(),
		Snapshot:  sess.Snapshot(),
	})
}

var errBadMode = errors.New(`mode must be "classic" or "daily"`)

func (s *Server) newSession(mode store.Mode) (*store.Session, error) {
	opts := []game.Option{game.WithRoundSeconds(s.opts.RoundSeconds)}
	switch mode {
	case "", store.ModeClassic:
		mode = store.ModeClassic
	case store.ModeDaily:
		// re-seeded on every start so each daily round follows that day's order
		opts = append(opts, game.WithRandFactory(func() game.Rand {
			return daily.NewRand(s.now(), s.opts.DailySalt)
		}))
	default:
		return nil, errBadMode
	}

	e := game.New(opts...)
	// an empty catalog is reported when the round is started
	_ = e.LoadCatalog(s.currentCatalog())
	return store.NewSession(uuid.NewString(), mode, e), nil
}

// handleStart starts the round and the session's tick driver.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	snap, err := sess.Restart(s.base, s.opts.TickInterval)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("start round")
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	Guess string `json:"guess"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	res, err := s.guess(sessionFrom(r), req.Guess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	snap, err := sessionFrom(r).Do(func(e *game.Engine) (game.Snapshot, error) { return e.Skip() })
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stop(sessionFrom(r)))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Snapshot())
}

// guess applies a guess and returns the engine's result.
func (s *Server) guess(sess *store.Session, text string) (game.GuessResult, error) {
	var res game.GuessResult
	_, err := sess.Do(func(e *game.Engine) (game.Snapshot, error) {
		var err error
		res, err = e.SubmitGuess(text)
		return res.Snapshot, err
	})
	return res, err
}

// stop halts the clock and ends the round.
func (s *Server) stop(sess *store.Session) game.Snapshot {
	sess.StopTicker()
	snap, _ := sess.Do(func(e *game.Engine) (game.Snapshot, error) { return e.Stop(), nil })
	return snap
}

// catalogRes is returned by PUT /admin/catalog.
type catalogRes struct {
	Words    int `json:"words"`
	Sessions int `json:"sessions"`
}

// handleReloadCatalog replaces the catalog for new and live sessions.
// Body: the same JSON array as the word list file.
func (s *Server) handleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := words.ParseJSON(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	n := s.setCatalog(r.Context(), entries)
	logger := hlog.FromRequest(r)
	if len(entries) == 0 {
		logger.Warn().Int("sessions", n).Msg("catalog cleared; new rounds will fail")
	} else {
		logger.Info().Int("words", len(entries)).Int("sessions", n).Msg("catalog reloaded")
	}
	writeJSON(w, http.StatusOK, catalogRes{Words: len(entries), Sessions: n})
}
