package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
)

func userAchievementRow(progress int, earnedAt *time.Time, seen bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "achievement_id", "progress", "earned_at", "seen", "created_at",
	}).AddRow("ua-1", "user-1", "ach-1", progress, earnedAt, seen, time.Now())
}

func TestAchievementStore_UpsertProgress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewAchievementStore(mock)

	mock.ExpectQuery("INSERT INTO user_achievements").
		WithArgs("user-1", "ach-1", 3).
		WillReturnRows(userAchievementRow(3, nil, false))

	ua, err := s.UpsertProgress(context.Background(), "user-1", "ach-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, ua.Progress)
	assert.False(t, ua.IsEarned())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAchievementStore_UnlockAchievement(t *testing.T) {
	t.Run("first unlock stamps earned_at", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewAchievementStore(mock)
		now := time.Now()

		mock.ExpectQuery("UPDATE user_achievements").
			WithArgs("user-1", "ach-1").
			WillReturnRows(userAchievementRow(5, &now, false))

		ua, isNew, err := s.UnlockAchievement(context.Background(), "user-1", "ach-1")
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.True(t, ua.IsEarned())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat unlock returns existing row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewAchievementStore(mock)
		earned := time.Now().Add(-time.Hour)

		mock.ExpectQuery("UPDATE user_achievements").
			WithArgs("user-1", "ach-1").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM user_achievements").
			WithArgs("user-1", "ach-1").
			WillReturnRows(userAchievementRow(5, &earned, true))

		ua, isNew, err := s.UnlockAchievement(context.Background(), "user-1", "ach-1")
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.True(t, ua.IsEarned())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row reports not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewAchievementStore(mock)

		mock.ExpectQuery("UPDATE user_achievements").
			WithArgs("user-1", "ach-404").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM user_achievements").
			WithArgs("user-1", "ach-404").
			WillReturnError(pgx.ErrNoRows)

		_, _, err = s.UnlockAchievement(context.Background(), "user-1", "ach-404")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAchievementStore_MarkSeen(t *testing.T) {
	t.Run("earned achievement is acknowledged", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewAchievementStore(mock)

		mock.ExpectExec("UPDATE user_achievements").
			WithArgs("ua-1", "user-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, s.MarkSeen(context.Background(), "user-1", "ua-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign or unearned row reports not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		s := NewAchievementStore(mock)

		mock.ExpectExec("UPDATE user_achievements").
			WithArgs("ua-1", "user-2").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = s.MarkSeen(context.Background(), "user-2", "ua-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAchievementStore_UserStanding(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewAchievementStore(mock)

	mock.ExpectQuery("WITH totals AS").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"points", "rank"}).AddRow(120, 3))

	points, rank, err := s.UserStanding(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 120, points)
	assert.Equal(t, 3, rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}
