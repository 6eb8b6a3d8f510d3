// internal/httpserver/routes_game.go
//
// Puzzle endpoints, mounted under /game (optional auth):
//   - POST /game/new             → start a puzzle, random or today's daily word
//   - GET  /game/{id}            → current board
//   - POST /game/{id}/guess      → submit a guess
//   - POST /game/{id}/hint       → reveal one unsolved letter
//   - POST /game/{id}/reset      → fresh puzzle at the same tier
//   - POST /game/{id}/difficulty → switch tier (refused mid-puzzle)
//
// Sessions live in the in-memory store. A session started by a signed-in
// player belongs to them; a guest session is claimed by the first signed-in
// player whose guess, hint, reset or difficulty change succeeds on it.
// Finished puzzles of owned sessions are folded into the owner's stats and
// pushed to the leaderboard feed.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cosmicword/internal/daily"
	"github.com/robalobadob/cosmicword/internal/game"
	"github.com/robalobadob/cosmicword/internal/puzzle"
	"github.com/robalobadob/cosmicword/internal/store"
	"github.com/robalobadob/cosmicword/internal/users"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Post("/guess", s.handleGuess)
			r.Post("/hint", s.handleHint)
			r.Post("/reset", s.handleReset)
			r.Post("/difficulty", s.handleChangeDifficulty)
		})
	})
}

type newGameReq struct {
	Difficulty string `json:"difficulty"`
	Daily      bool   `json:"daily"`
}

type guessReq struct {
	Guess string `json:"guess"`
}

type guessRes struct {
	Result game.Result `json:"result"`
	Game   game.View   `json:"game"`
	// Player is set when the guess finished the puzzle and the result was recorded.
	Player *users.User `json:"player,omitempty"`
}

type hintRes struct {
	Hint game.Hint `json:"hint"`
	Game game.View `json:"game"`
}

type difficultyReq struct {
	Difficulty string `json:"difficulty"`
}

// handleNewGame creates a session and returns its view. Daily starts may
// return an unfinished session from earlier today with 200 instead of 201.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	d := puzzle.ParseDifficulty(req.Difficulty)
	me := currentUser(r.Context())

	if req.Daily {
		view, created, err := s.startDaily(r.Context(), me, d)
		if err != nil {
			fail(w, err)
			return
		}
		status := http.StatusCreated
		if !created {
			status = http.StatusOK
		}
		log.Debug().Str("gameId", view.ID).Str("difficulty", string(d)).Bool("reused", !created).Msg("daily game")
		writeJSON(w, status, view)
		return
	}

	opts := []game.Option{game.WithClock(s.now)}
	if me != nil {
		opts = append(opts, game.WithOwner(me.ID))
	}
	g := game.New(s.words, d, s.rng, opts...)
	if err := s.sessions.Save(r.Context(), g); err != nil {
		fail(w, err)
		return
	}
	log.Debug().Str("gameId", g.ID).Str("difficulty", string(d)).Msg("new game")
	writeJSON(w, http.StatusCreated, g.View())
}

// updateSession runs fn on the session named in the URL under the store's
// lock. Sessions owned by another player are reported as missing. With claim
// set, a guest session passes to the signed-in caller once fn succeeds.
func (s *Server) updateSession(r *http.Request, claim bool, fn func(*game.Session) error) error {
	me := currentUser(r.Context())
	return s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(g *game.Session) error {
		if g.Owner != "" && (me == nil || me.ID != g.Owner) {
			return store.ErrNotFound
		}
		claimed := false
		if claim && g.Owner == "" && me != nil {
			g.Owner, claimed = me.ID, true
		}
		if err := fn(g); err != nil {
			if claimed {
				g.Owner = ""
			}
			return err
		}
		return nil
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var view game.View
	if err := s.updateSession(r, false, func(g *game.Session) error {
		view = g.View()
		return nil
	}); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleGuess applies a guess and, when it finishes the puzzle, records the
// result for the owning player.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, err)
		return
	}

	var (
		res     game.Result
		view    game.View
		out     game.Outcome
		done    bool
		ownerID string
	)
	err := s.updateSession(r, true, func(g *game.Session) error {
		var err error
		if res, err = g.Guess(req.Guess); err != nil {
			return err
		}
		view = g.View()
		out, done = g.Outcome()
		ownerID = g.Owner
		return nil
	})
	if err != nil {
		fail(w, err)
		return
	}

	resp := guessRes{Result: res, Game: view}
	if done && ownerID != "" {
		u, err := s.users.ApplyOutcome(r.Context(), ownerID, out)
		switch {
		case errors.Is(err, daily.ErrAlreadyPlayed):
			log.Warn().Str("gameId", out.SessionID).Str("user", ownerID).Msg("daily already recorded; result not counted")
		case err != nil:
			// the puzzle itself is settled; report it even if stats could not be saved
			log.Error().Err(err).Str("gameId", out.SessionID).Str("user", ownerID).Msg("record outcome")
		default:
			resp.Player = u
			go s.publishLeaderboard()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var resp hintRes
	err := s.updateSession(r, true, func(g *game.Session) error {
		h, err := g.Hint(s.rng)
		if err != nil {
			return err
		}
		resp = hintRes{Hint: h, Game: g.View()}
		return nil
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var view game.View
	if err := s.updateSession(r, true, func(g *game.Session) error {
		g.Reset(s.rng)
		view = g.View()
		return nil
	}); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleChangeDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyReq
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	var view game.View
	err := s.updateSession(r, true, func(g *game.Session) error {
		if err := g.ChangeDifficulty(puzzle.ParseDifficulty(req.Difficulty), s.rng); err != nil {
			return err
		}
		view = g.View()
		return nil
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// publishLeaderboard pushes fresh rankings to feed subscribers.
func (s *Server) publishLeaderboard() {
	if s.feed.Len() == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg, err := s.leaderboardMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("build leaderboard feed")
		}
		return
	}
	s.feed.Broadcast(msg)
}
