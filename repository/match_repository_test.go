package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookie/models"
	"bookie/repository/testutil"
	"bookie/service"
)

type matchFixture struct {
	db     *testutil.TestDatabase
	gameID uuid.UUID
	team1  uuid.UUID
	team2  uuid.UUID
}

func setupMatchFixture(t *testing.T) *matchFixture {
	testDB := testutil.SetupTestDatabase(t)
	return &matchFixture{
		db:     testDB,
		gameID: testutil.InsertGame(t, testDB.DB, "Dota 2"),
		team1:  testutil.InsertTeam(t, testDB.DB, "Alpha"),
		team2:  testutil.InsertTeam(t, testDB.DB, "Bravo"),
	}
}

func TestMatchRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	f := setupMatchFixture(t)
	ctx := context.Background()
	repo := NewMatchRepository(f.db.DB)

	match := &models.Match{
		ID:          uuid.New(),
		Team1ID:     f.team1,
		Team2ID:     f.team2,
		GameID:      f.gameID,
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      models.MatchStatusScheduled,
		Format:      "bo3",
	}
	require.NoError(t, repo.Create(ctx, match))

	fetched, err := repo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, models.MatchStatusScheduled, fetched.Status)
	assert.True(t, fetched.IsBettable())
	assert.Nil(t, fetched.WinnerTeamID)
}

func TestMatchRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	f := setupMatchFixture(t)
	ctx := context.Background()
	repo := NewMatchRepository(f.db.DB)

	matchID := testutil.InsertMatch(t, f.db.DB, f.team1, f.team2, f.gameID, nil, models.MatchStatusScheduled)

	require.NoError(t, repo.MarkLive(ctx, matchID))
	match, err := repo.GetByID(ctx, matchID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusLive, match.Status)
	assert.False(t, match.IsBettable())

	// MarkLive only moves scheduled matches
	err = repo.MarkLive(ctx, matchID)
	assert.Error(t, err)

	require.NoError(t, repo.MarkCompleted(ctx, matchID, f.team1, 2, 1))
	match, err = repo.GetByID(ctx, matchID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, match.Status)
	require.NotNil(t, match.WinnerTeamID)
	assert.Equal(t, f.team1, *match.WinnerTeamID)
	require.NotNil(t, match.Team1Score)
	assert.Equal(t, 2, *match.Team1Score)

	// Terminal states are final
	err = repo.MarkCancelled(ctx, matchID)
	assert.ErrorIs(t, err, service.ErrAlreadySettled)
	err = repo.MarkCompleted(ctx, matchID, f.team2, 0, 2)
	assert.ErrorIs(t, err, service.ErrAlreadySettled)
}

func TestMatchRepository_MarkCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	f := setupMatchFixture(t)
	ctx := context.Background()
	repo := NewMatchRepository(f.db.DB)

	matchID := testutil.InsertMatch(t, f.db.DB, f.team1, f.team2, f.gameID, nil, models.MatchStatusLive)

	require.NoError(t, repo.MarkCancelled(ctx, matchID))
	match, err := repo.GetByID(ctx, matchID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCancelled, match.Status)
	assert.Nil(t, match.WinnerTeamID)
}

func TestMatchRepository_ListBettableAndScheduledBefore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	f := setupMatchFixture(t)
	ctx := context.Background()
	repo := NewMatchRepository(f.db.DB)

	scheduled := testutil.InsertMatch(t, f.db.DB, f.team1, f.team2, f.gameID, nil, models.MatchStatusScheduled)
	testutil.InsertMatch(t, f.db.DB, f.team1, f.team2, f.gameID, nil, models.MatchStatusLive)
	testutil.InsertCompletedMatch(t, f.db.DB, f.team1, f.team2, f.gameID, nil, f.team1)

	bettable, err := repo.ListBettable(ctx)
	require.NoError(t, err)
	require.Len(t, bettable, 1)
	assert.Equal(t, scheduled, bettable[0].ID)

	// The scheduled match starts an hour from now, so nothing is due yet
	due, err := repo.ListScheduledBefore(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = repo.ListScheduledBefore(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, scheduled, due[0].ID)
}

func TestMatchRepository_List_Pagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	f := setupMatchFixture(t)
	ctx := context.Background()
	repo := NewMatchRepository(f.db.DB)

	for range 3 {
		testutil.InsertMatch(t, f.db.DB, f.team1, f.team2, f.gameID, nil, models.MatchStatusScheduled)
	}

	page, total, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, 3, total)

	page, total, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, 3, total)

	// Past the end is empty, not an error. The window count rides on the
	// rows, so an empty page reports zero.
	page, total, err = repo.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 0, total)
}
