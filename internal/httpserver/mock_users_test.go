package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cosmicword/internal/game"
	"github.com/robalobadob/cosmicword/internal/puzzle"
	"github.com/robalobadob/cosmicword/internal/stats"
	"github.com/robalobadob/cosmicword/internal/users"
)

type mockUsers struct {
	mock.Mock
}

func userArg(args mock.Arguments) *users.User {
	u, _ := args.Get(0).(*users.User)
	return u
}

func (m *mockUsers) Create(ctx context.Context, nu users.NewUser) (*users.User, error) {
	args := m.Called(ctx, nu)
	return userArg(args), args.Error(1)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*users.User, error) {
	args := m.Called(ctx, id)
	return userArg(args), args.Error(1)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	return userArg(args), args.Error(1)
}

func (m *mockUsers) List(ctx context.Context) ([]users.User, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]users.User)
	return list, args.Error(1)
}

func (m *mockUsers) ApplyOutcome(ctx context.Context, userID string, out game.Outcome) (*users.User, error) {
	args := m.Called(ctx, userID, out)
	return userArg(args), args.Error(1)
}

func (m *mockUsers) RecentGames(ctx context.Context, userID string, limit int) ([]users.GameRow, error) {
	args := m.Called(ctx, userID, limit)
	rows, _ := args.Get(0).([]users.GameRow)
	return rows, args.Error(1)
}

func player(id, name string, points, won int) users.User {
	return users.User{ID: id, Username: name, Stats: stats.Record{TotalPoints: points, GamesWon: won}}
}

func TestLeaderboardOrdering(t *testing.T) {
	m := &mockUsers{}
	m.On("List", mock.Anything).Return([]users.User{
		player("1", "vega", 900, 10),
		player("2", "altair", 1200, 4),
		player("3", "deneb", 900, 30),
	}, nil)
	f := newFixture(t, m, nil)

	rec := f.do(t, http.MethodGet, "/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[leaderboardRes](t, rec)
	assert.Equal(t, stats.ByPoints, board.By)
	require.Len(t, board.Entries, 3)
	assert.Equal(t, []string{"altair", "deneb", "vega"},
		[]string{board.Entries[0].Username, board.Entries[1].Username, board.Entries[2].Username})
	assert.Equal(t, 3, board.Entries[0].Level)
	assert.Zero(t, board.MyRank)

	rec = f.do(t, http.MethodGet, "/leaderboard?by=wins", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board = decode[leaderboardRes](t, rec)
	assert.Equal(t, "deneb", board.Entries[0].Username)
	assert.Equal(t, 1, board.Entries[0].Rank)

	m.AssertExpectations(t)
}

func TestLeaderboardStoreError(t *testing.T) {
	m := &mockUsers{}
	m.On("List", mock.Anything).Return(nil, errors.New("disk on fire"))
	f := newFixture(t, m, nil)

	rec := f.do(t, http.MethodGet, "/leaderboard", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestWinAppliesOutcomeForTokenUser(t *testing.T) {
	m := &mockUsers{}
	me := &users.User{ID: "u1", Username: "pilot"}
	m.On("FindByID", mock.Anything, "u1").Return(me, nil)
	m.On("ApplyOutcome", mock.Anything, "u1", mock.MatchedBy(func(o game.Outcome) bool {
		return o.Won && o.Attempts == 1 && o.Score == 50 && o.Difficulty == puzzle.Easy && o.Target == "COMET"
	})).Return(&users.User{ID: "u1", Username: "pilot", Stats: stats.Record{TotalPoints: 50}}, nil).Once()
	f := newFixture(t, m, nil)

	tok, _, err := f.srv.signJWT("u1", "pilot")
	require.NoError(t, err)
	cookie := &http.Cookie{Name: "cosmic_token", Value: tok}
	g := f.newGame(t, puzzle.Easy, cookie)
	rec := f.do(t, http.MethodPost, "/game/"+g.ID+"/guess", guessReq{Guess: "COMET"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[guessRes](t, rec)
	require.NotNil(t, res.Player)
	assert.Equal(t, 50, res.Player.Stats.TotalPoints)

	m.AssertExpectations(t)
}

func TestOutcomeFailureStillAnswers(t *testing.T) {
	m := &mockUsers{}
	m.On("FindByID", mock.Anything, "u1").Return(&users.User{ID: "u1", Username: "pilot"}, nil)
	m.On("ApplyOutcome", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("locked"))
	f := newFixture(t, m, nil)

	tok, _, err := f.srv.signJWT("u1", "pilot")
	require.NoError(t, err)
	cookie := &http.Cookie{Name: "cosmic_token", Value: tok}

	g := f.newGame(t, puzzle.Easy, cookie)
	rec := f.do(t, http.MethodPost, "/game/"+g.ID+"/guess", guessReq{Guess: "COMET"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[guessRes](t, rec)
	assert.Equal(t, puzzle.Won, res.Result.Status)
	assert.Nil(t, res.Player)
}

func TestTokenForDeletedUserIsIgnored(t *testing.T) {
	m := &mockUsers{}
	m.On("FindByID", mock.Anything, "gone").Return(nil, users.ErrNotFound)
	f := newFixture(t, m, nil)

	tok, _, err := f.srv.signJWT("gone", "ghost")
	require.NoError(t, err)
	rec := f.do(t, http.MethodGet, "/auth/me", nil, &http.Cookie{Name: "cosmic_token", Value: tok})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecentGamesUsesCaller(t *testing.T) {
	m := &mockUsers{}
	m.On("FindByID", mock.Anything, "u1").Return(&users.User{ID: "u1", Username: "pilot"}, nil)
	m.On("RecentGames", mock.Anything, "u1", 5).Return([]users.GameRow{{ID: "g1", Target: "COMET", Status: "won"}}, nil)
	f := newFixture(t, m, nil)

	tok, _, err := f.srv.signJWT("u1", "pilot")
	require.NoError(t, err)
	rec := f.do(t, http.MethodGet, "/games/mine?limit=5", nil, &http.Cookie{Name: "cosmic_token", Value: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]users.GameRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "g1", rows[0].ID)
	m.AssertExpectations(t)
}
