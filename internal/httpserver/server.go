// internal/httpserver/server.go
//
// HTTP server wiring for the Cosmic Word backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words", "/difficulties", "/levels".
//   - Puzzle endpoints (optional auth): mounted under /game.
//   - Auth + profile endpoints: /auth/*, /profile/me, /games/mine.
//   - Leaderboard: /leaderboard and the /ws/leaderboard live feed.
//   - Daily standings: /daily/leaderboard.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with the user when a valid token is present;
//     guests can still play, but only signed-in players have results recorded.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cosmicword/internal/config"
	"github.com/robalobadob/cosmicword/internal/daily"
	"github.com/robalobadob/cosmicword/internal/feed"
	"github.com/robalobadob/cosmicword/internal/game"
	"github.com/robalobadob/cosmicword/internal/puzzle"
	"github.com/robalobadob/cosmicword/internal/store"
	"github.com/robalobadob/cosmicword/internal/users"
	"github.com/robalobadob/cosmicword/internal/words"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators the server is built from.
type Deps struct {
	Sessions store.Store
	Users    users.Store
	Daily    *daily.Store
	Words    *words.Lists
	Rand     puzzle.Rand      // optional; seeded from the clock when nil
	Now      func() time.Time // optional
}

// Server bundles router, session store, user store and live feed.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	sessions store.Store
	users    users.Store
	daily    *daily.Store
	words    *words.Lists
	feed     *feed.Hub
	rng      puzzle.Rand
	now      func() time.Time

	dailyMu   sync.Mutex
	dailyOpen map[string]openDaily // userID|tier → today's unfinished daily session
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		sessions: d.Sessions,
		users:    d.Users,
		daily:    d.Daily,
		words:    d.Words,
		rng:      d.Rand,
		now:      d.Now,

		dailyOpen: make(map[string]openDaily),
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = &lockedRand{r: rand.New(rand.NewPCG(seed, seed>>1|1))}
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.feed = feed.NewHub(cfg.ClientOrigin, s.leaderboardSnapshot)

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.cors)
	s.r.Use(s.withOptionalAuth)

	// websocket upgrades must not run under the handler timeout
	s.r.Get("/ws/leaderboard", s.feed.ServeHTTP)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "cosmicword",
				"endpoints": []string{
					"/health", "/difficulties", "/levels", "POST /game/new", "/game/{id}",
					"/auth/*", "/profile/me", "/games/mine", "/leaderboard", "/daily/leaderboard", "/ws/leaderboard",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.words.Stats())
		})
		r.Get("/difficulties", s.handleDifficulties)
		r.Get("/levels", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, puzzle.Levels())
		})

		s.mountGame(r)
		s.mountAuth(r)
		s.mountProfile(r)
		s.mountDaily(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Feed exposes the live leaderboard hub so the caller can run it.
func (s *Server) Feed() *feed.Hub { return s.feed }

// Start serves HTTP on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunJanitor evicts puzzle sessions idle for longer than the configured TTL,
// checking every interval until ctx is cancelled.
func (s *Server) RunJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Server) sweep(ctx context.Context) int {
	n, err := s.sessions.Sweep(ctx, time.Now().Add(-s.cfg.SessionTTL))
	if err != nil {
		log.Warn().Err(err).Msg("sweep sessions")
		return 0
	}
	s.pruneDaily()
	if n > 0 {
		log.Debug().Int("evicted", n).Msg("swept idle sessions")
	}
	return n
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

// lockedRand serialises access to a shared source.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errBadJSON is returned by decodeJSON for malformed bodies.
var errBadJSON = errors.New("invalid_json")

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errBadJSON
	}
	return nil
}

// fail maps domain errors to HTTP status codes.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadJSON):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errInvalidInput),
		errors.Is(err, game.ErrInvalidLength),
		errors.Is(err, game.ErrNotAlphabetic),
		errors.Is(err, game.ErrFinished),
		errors.Is(err, game.ErrHintsExhausted),
		errors.Is(err, game.ErrNoHintAvailable):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, users.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, game.ErrMissionInProgress),
		errors.Is(err, daily.ErrAlreadyPlayed),
		errors.Is(err, users.ErrUsernameTaken),
		errors.Is(err, users.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

// ------------------------------ metadata -----------------------------------

type difficultyInfo struct {
	ID          puzzle.Difficulty `json:"id"`
	WordLength  int               `json:"wordLength"`
	MaxAttempts int               `json:"maxAttempts"`
	Multiplier  float64           `json:"multiplier"`
	Words       int               `json:"words"`
}

func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	out := make([]difficultyInfo, 0, 4)
	for _, d := range puzzle.Difficulties() {
		out = append(out, difficultyInfo{
			ID:          d,
			WordLength:  puzzle.WordLength(d),
			MaxAttempts: puzzle.MaxAttempts(d),
			Multiplier:  puzzle.Multiplier(d),
			Words:       len(s.words.Words(d)),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
