// internal/httpserver/routes_daily.go
//
// Daily puzzle support:
//   - POST /game/new {"daily": true} → today's word for the tier (see startDaily)
//   - GET  /daily/leaderboard        → best results for a date (default today) and tier
//
// A signed-in player gets one daily puzzle per tier per UTC day. Asking again
// while it is unfinished returns the same session; asking after it finished
// is refused. Guests may play the daily but their results are not kept.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cosmicword/internal/daily"
	"github.com/robalobadob/cosmicword/internal/game"
	"github.com/robalobadob/cosmicword/internal/puzzle"
	"github.com/robalobadob/cosmicword/internal/users"
)

const dailyBoardLimit = 20

type openDaily struct {
	date      string
	sessionID string
}

// mountDaily registers the /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily/leaderboard", s.handleDailyLeaderboard)
}

// startDaily creates, or reuses, the caller's daily session for tier d.
// created is false when an unfinished session from earlier today is returned.
func (s *Server) startDaily(ctx context.Context, me *users.User, d puzzle.Difficulty) (view game.View, created bool, err error) {
	now := s.now()
	date := daily.DateKey(now)
	opts := []game.Option{
		game.WithClock(s.now),
		game.WithTarget(daily.Word(s.words.Words(d), d, now, s.cfg.DailySalt)),
		game.WithDaily(),
	}
	if me == nil {
		g := game.New(s.words, d, s.rng, opts...)
		return g.View(), true, s.sessions.Save(ctx, g)
	}

	played, err := s.daily.AlreadyPlayed(ctx, me.ID, date, d)
	if err != nil {
		return game.View{}, false, err
	}
	if played {
		return game.View{}, false, daily.ErrAlreadyPlayed
	}

	key := me.ID + "|" + string(d)
	s.dailyMu.Lock()
	defer s.dailyMu.Unlock()

	if open, ok := s.dailyOpen[key]; ok && open.date == date {
		reused := false
		err := s.sessions.Update(ctx, open.sessionID, func(g *game.Session) error {
			if g.Daily && g.Owner == me.ID && g.Status == puzzle.Playing {
				view, reused = g.View(), true
			}
			return nil
		})
		if err == nil && reused {
			return view, false, nil
		}
	}

	g := game.New(s.words, d, s.rng, append(opts, game.WithOwner(me.ID))...)
	if err := s.sessions.Save(ctx, g); err != nil {
		return game.View{}, false, err
	}
	s.dailyOpen[key] = openDaily{date: date, sessionID: g.ID}
	return g.View(), true, nil
}

// pruneDaily forgets open daily sessions from previous days.
func (s *Server) pruneDaily() {
	today := daily.DateKey(s.now())
	s.dailyMu.Lock()
	defer s.dailyMu.Unlock()
	for k, open := range s.dailyOpen {
		if open.date != today {
			delete(s.dailyOpen, k)
		}
	}
}

type dailyBoardRes struct {
	Date       string            `json:"date"`
	Difficulty puzzle.Difficulty `json:"difficulty"`
	Top        []daily.LBRow     `json:"top"`
}

// handleDailyLeaderboard returns the standings for ?date= (default today)
// and ?difficulty= (default easy).
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		fail(w, errInvalidInput)
		return
	}
	d := puzzle.ParseDifficulty(r.URL.Query().Get("difficulty"))

	rows, err := s.daily.Leaderboard(r.Context(), date, d, dailyBoardLimit)
	if err != nil {
		fail(w, err)
		return
	}
	log.Debug().Str("date", date).Str("difficulty", string(d)).Int("rows", len(rows)).Msg("daily leaderboard")
	writeJSON(w, http.StatusOK, dailyBoardRes{Date: date, Difficulty: d, Top: rows})
}
