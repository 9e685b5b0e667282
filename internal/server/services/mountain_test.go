package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/server/models"
	"github.com/ttakano/climblog/internal/server/policy"
)

var (
	hiker = &policy.Principal{ID: 1, Username: "hiker"}
	staff = &policy.Principal{ID: 2, Username: "root", Staff: true}
)

func TestMountainService_Create(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewMountainService(db, rm, testConfig())

	expectTx(mock)
	m, err := s.Create(context.Background(), hiker, MountainInput{
		Name:       strptr("Fuji"),
		Prefecture: strptr("Shizuoka"),
		Elevation:  intptr(3776),
	})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, 3776, m.Elevation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMountainService_Create_RequiresPrincipal(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewMountainService(db, newFakeRepoManager(), testConfig())

	_, err := s.Create(context.Background(), nil, MountainInput{
		Name:       strptr("Fuji"),
		Prefecture: strptr("Shizuoka"),
		Elevation:  intptr(3776),
	})
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))
}

func TestMountainService_Create_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewMountainService(db, newFakeRepoManager(), testConfig())

	_, err := s.Create(context.Background(), hiker, MountainInput{Elevation: intptr(-5)})
	require.Error(t, err)

	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "prefecture")
	assert.Contains(t, ve.Fields["elevation"], "must not be negative")
}

func TestMountainService_Update_StaffOnly(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewMountainService(db, rm, testConfig())

	// created by a regular user...
	expectTx(mock)
	m, err := s.Create(context.Background(), hiker, MountainInput{
		Name:       strptr("Fuji"),
		Prefecture: strptr("Shizuoka"),
		Elevation:  intptr(3775),
	})
	require.NoError(t, err)

	// ...who still may not update it: no ownership concept for mountains
	_, err = s.Update(context.Background(), hiker, m.ID, MountainInput{Elevation: intptr(3776)})
	assert.True(t, errors.Is(err, common.ErrorForbidden))

	_, err = s.Update(context.Background(), nil, m.ID, MountainInput{Elevation: intptr(3776)})
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))

	expectTx(mock)
	updated, err := s.Update(context.Background(), staff, m.ID, MountainInput{Elevation: intptr(3776)})
	require.NoError(t, err)
	assert.Equal(t, 3776, updated.Elevation)
	// untouched fields keep their values
	assert.Equal(t, "Fuji", updated.Name)
	assert.Equal(t, "Shizuoka", updated.Prefecture)
}

func TestMountainService_Update_EmptyPatch(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewMountainService(db, rm, testConfig())

	_, err := s.Update(context.Background(), staff, 1, MountainInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestMountainService_Update_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	s := NewMountainService(db, newFakeRepoManager(), testConfig())

	expectTxRollback(mock)
	_, err := s.Update(context.Background(), staff, 404, MountainInput{Elevation: intptr(1)})
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestMountainService_Delete_StaffOnly(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewMountainService(db, rm, testConfig())

	rm.MountainsRepo.Seed(&models.Mountain{Name: "Fuji", Prefecture: "Shizuoka", Elevation: 3776})

	err := s.Delete(context.Background(), hiker, 1)
	assert.True(t, errors.Is(err, common.ErrorForbidden))

	expectTx(mock)
	require.NoError(t, s.Delete(context.Background(), staff, 1))

	_, err = s.Get(context.Background(), 1)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
