package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"guestlist/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSVPRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("with plus one", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO rsvps`).
			WithArgs("ev-1", "Grace", true, "Alan", "2026-09-01, 2026-09-02", created).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		rsvp := &domain.RSVP{
			EventID:         "ev-1",
			ParticipantName: "Grace",
			HasPlusOne:      true,
			PlusOneName:     "Alan",
			SelectedDates:   "2026-09-01, 2026-09-02",
			CreatedAt:       created,
		}
		repo := NewRSVPRepository(db)
		require.NoError(t, repo.Create(ctx, rsvp))
		assert.Equal(t, int64(7), rsvp.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty plus one name stores NULL", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO rsvps`).
			WithArgs("ev-1", "Grace", false, nil, "2026-09-01", created).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

		rsvp := &domain.RSVP{
			EventID:         "ev-1",
			ParticipantName: "Grace",
			SelectedDates:   "2026-09-01",
			CreatedAt:       created,
		}
		repo := NewRSVPRepository(db)
		require.NoError(t, repo.Create(ctx, rsvp))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO rsvps`).
			WillReturnError(sql.ErrConnDone)

		repo := NewRSVPRepository(db)
		require.Error(t, repo.Create(ctx, &domain.RSVP{EventID: "ev-1"}))
	})
}

func TestRSVPRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("paginated with search", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WithArgs("ev-1", "gra").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
		mock.ExpectQuery(`SELECT id, event_id, participant_name`).
			WithArgs("ev-1", "gra", 2, 2).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "event_id", "participant_name", "has_plus_one", "plus_one_name", "selected_dates", "created_at",
			}).
				AddRow(int64(3), "ev-1", "Grace", true, "Alan", "2026-09-01", created).
				AddRow(int64(2), "ev-1", "Graham", false, nil, "2026-09-02", created))

		repo := NewRSVPRepository(db)
		rsvps, total, err := repo.ListByEventID(ctx, "ev-1", "gra", domain.PaginationParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, rsvps, 2)
		assert.Equal(t, "Alan", rsvps[0].PlusOneName)
		assert.Empty(t, rsvps[1].PlusOneName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WithArgs("ev-1", "").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT id, event_id, participant_name`).
			WithArgs("ev-1", "", 20, 0).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "event_id", "participant_name", "has_plus_one", "plus_one_name", "selected_dates", "created_at",
			}))

		repo := NewRSVPRepository(db)
		rsvps, total, err := repo.ListByEventID(ctx, "ev-1", "", domain.PaginationParams{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Zero(t, total)
		require.NotNil(t, rsvps)
		assert.Empty(t, rsvps)
	})
}

func TestRSVPRepository_CountByEventID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rsvps`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	repo := NewRSVPRepository(db)
	count, err := repo.CountByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 12, count)
}
