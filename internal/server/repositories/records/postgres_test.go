package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/server/models"
)

var recordColumns = []string{
	"id", "user_id", "username", "mountain_id", "climb_date",
	"comment", "photo_key", "created_at", "updated_at",
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	climbDate := time.Date(2024, 8, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT r.id, r.user_id, u.username").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(7, 1, "alice", 2, climbDate, "clear skies", "", now, now))

	repo := NewPostgresRepository(db)
	rec, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, climbDate, rec.ClimbDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT r.id, r.user_id, u.username").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	repo := NewPostgresRepository(db)
	_, err = repo.GetByID(context.Background(), 99)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	climbDate := time.Date(2024, 8, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO climb_records").
		WithArgs(int64(1), int64(2), climbDate, "clear skies", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(7, now, now))

	repo := NewPostgresRepository(db)
	rec, err := repo.Create(context.Background(), &models.ClimbRecord{
		UserID:     1,
		MountainID: 2,
		ClimbDate:  climbDate,
		Comment:    "clear skies",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NoRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE climb_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)
	err = repo.Update(context.Background(), &models.ClimbRecord{ID: 99})
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestListByUser_PassesLimitAndOffset(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT r.id, r.user_id, u.username").
		WithArgs(int64(1), 10, 20).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(5, 1, "alice", 2, now, "", "", now, now))

	repo := NewPostgresRepository(db)
	recs, err := repo.ListByUser(context.Background(), 1, 10, 20)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

	repo := NewPostgresRepository(db)
	n, err := repo.CountByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 13, n)
}
