// internal/httpserver/server.go
//
// HTTP server wiring for the scramble backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints under /game, authorised by a per-session token.
//   - Live round stream over WebSocket (/game/ws).
//   - Admin catalog reload (/admin/catalog), only when an admin hash is configured.
//
// Notes:
//   - Each session owns one game.Engine; the server runs its tick driver
//     while a round is active.
//   - The catalog is shared: new sessions copy it, a reload pushes it into
//     every live session.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/scramble/internal/game"
	"github.com/robalobadob/scramble/internal/store"
	"github.com/robalobadob/scramble/internal/ticker"
)

// Options configures a Server.
type Options struct {
	Store   store.Store
	Catalog []game.WordEntry

	RoundSeconds int
	TickInterval time.Duration

	JWTSecret     string
	TokenTTL      time.Duration
	SecureCookies bool

	// AdminPasswordHash is a bcrypt hash; empty disables /admin routes.
	AdminPasswordHash string

	ClientOrigin string
	DailySalt    string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server bundles router, session store and the shared catalog.
type Server struct {
	r     *chi.Mux
	opts  Options
	store store.Store

	catMu   sync.RWMutex
	catalog []game.WordEntry

	// base outlives requests; tick drivers and sockets hang off it.
	base   context.Context
	cancel context.CancelFunc
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.RoundSeconds <= 0 {
		opts.RoundSeconds = game.DefaultRoundSeconds
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = ticker.DefaultInterval
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		r:       chi.NewRouter(),
		opts:    opts,
		store:   opts.Store,
		catalog: append([]game.WordEntry(nil), opts.Catalog...),
		base:    base,
		cancel:  cancel,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(jsonContentType)               // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))       // credentials-friendly CORS

	// WebSocket lives outside the timeout group; the connection outlives it.
	s.r.With(s.requireSession()).Get("/game/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "scramble-go",
				"endpoints": []string{"/health", "POST /game/new", "POST /game/start", "POST /game/guess", "POST /game/skip", "POST /game/stop", "GET /game/state", "GET /game/ws"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"catalog": len(s.currentCatalog()), "sessions": s.store.Len()})
		})

		s.mountGame(r)

		if opts.AdminPasswordHash != "" {
			r.With(s.requireAdmin).Put("/admin/catalog", s.handleReloadCatalog)
		}
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("starting scramble server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close stops every tick driver and open socket.
func (s *Server) Close() {
	s.cancel()
	s.store.Range(context.Background(), func(sess *store.Session) bool {
		sess.StopTicker()
		return true
	})
}

func (s *Server) now() time.Time { return s.opts.Now() }

func (s *Server) currentCatalog() []game.WordEntry {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	return s.catalog
}

// setCatalog replaces the shared catalog and pushes it into every live
// session. Returns how many sessions were updated.
func (s *Server) setCatalog(ctx context.Context, entries []game.WordEntry) int {
	s.catMu.Lock()
	s.catalog = append([]game.WordEntry(nil), entries...)
	s.catMu.Unlock()

	var n int
	s.store.Range(ctx, func(sess *store.Session) bool {
		_ = sess.LoadCatalog(entries)
		n++
		return true
	})
	return n
}
