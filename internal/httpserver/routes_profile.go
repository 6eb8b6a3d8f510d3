// internal/httpserver/routes_profile.go
//
// Player-facing stats:
//   - GET /profile/me   → stats, level, achievements (auth)
//   - GET /games/mine   → recent finished puzzles (auth)
//   - GET /leaderboard  → top players by points or wins, plus caller rank
//   - /ws/leaderboard   → snapshot on connect, then a push after every recorded game

package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/cosmicword/internal/feed"
	"github.com/robalobadob/cosmicword/internal/stats"
)

const recentGamesLimit = 50

type profileRes struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	stats.Profile
}

type leaderboardRes struct {
	stats.Board
	// MyRank is the caller's 1-based position over all players, 0 for guests.
	MyRank int `json:"myRank"`
}

// leaderboardFeed is the payload of feed messages: both orderings at once.
type leaderboardFeed struct {
	Points stats.Board `json:"points"`
	Wins   stats.Board `json:"wins"`
}

// mountProfile registers profile, history and leaderboard routes.
func (s *Server) mountProfile(r chi.Router) {
	r.With(requireAuth).Get("/profile/me", s.handleProfile)
	r.With(requireAuth).Get("/games/mine", s.handleMyGames)
	r.Get("/leaderboard", s.handleLeaderboard)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r.Context())
	writeJSON(w, http.StatusOK, profileRes{
		ID:        me.ID,
		Username:  me.Username,
		CreatedAt: me.CreatedAt,
		Profile:   stats.BuildProfile(me.Stats),
	})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	limit := recentGamesLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v < recentGamesLimit {
		limit = v
	}
	rows, err := s.users.RecentGames(r.Context(), currentUser(r.Context()).ID, limit)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.rank(r.Context(), stats.ParseSortKey(r.URL.Query().Get("by")))
	if err != nil {
		fail(w, err)
		return
	}
	res := leaderboardRes{Board: board.Top(stats.DefaultLimit)}
	if me := currentUser(r.Context()); me != nil {
		res.MyRank = board.RankOf(me.ID)
	}
	writeJSON(w, http.StatusOK, res)
}

// rank loads every player and orders them by key.
func (s *Server) rank(ctx context.Context, by stats.SortKey) (stats.Board, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return stats.Board{}, err
	}
	entries := make([]stats.Entry, 0, len(all))
	for _, u := range all {
		entries = append(entries, stats.Entry{
			UserID:      u.ID,
			Username:    u.Username,
			TotalPoints: u.Stats.TotalPoints,
			GamesWon:    u.Stats.GamesWon,
		})
	}
	return stats.Rank(entries, by), nil
}

// leaderboardMessage builds the feed payload with both orderings.
func (s *Server) leaderboardMessage(ctx context.Context) (feed.Message, error) {
	byPoints, err := s.rank(ctx, stats.ByPoints)
	if err != nil {
		return feed.Message{}, err
	}
	return feed.Message{
		Type: "leaderboard",
		Data: leaderboardFeed{
			Points: byPoints.Top(stats.DefaultLimit),
			Wins:   stats.Rank(byPoints.Entries, stats.ByWins).Top(stats.DefaultLimit),
		},
		Time: s.now().UTC(),
	}, nil
}

// leaderboardSnapshot greets new feed clients with the current standings.
func (s *Server) leaderboardSnapshot(r *http.Request) (feed.Message, error) {
	return s.leaderboardMessage(r.Context())
}
