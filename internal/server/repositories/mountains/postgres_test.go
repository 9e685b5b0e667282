package mountains

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/server/models"
)

func TestList_PassesNameFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, prefecture, elevation FROM mountains").
		WithArgs("fu").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "prefecture", "elevation"}).
			AddRow(1, "Fuji", "Shizuoka", 3776))

	repo := NewPostgresRepository(db)
	ms, err := repo.List(context.Background(), "fu")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "Fuji", ms[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, prefecture, elevation FROM mountains").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "prefecture", "elevation"}))

	repo := NewPostgresRepository(db)
	_, err = repo.GetByID(context.Background(), 99)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestDelete_NoRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM mountains").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)
	err = repo.Delete(context.Background(), 99)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestCreate_ReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO mountains").
		WithArgs("Fuji", "Shizuoka", 3776).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	repo := NewPostgresRepository(db)
	m, err := repo.Create(context.Background(), &models.Mountain{
		Name: "Fuji", Prefecture: "Shizuoka", Elevation: 3776,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.ID)
}
