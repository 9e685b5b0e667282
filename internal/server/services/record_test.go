package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/server/models"
	"github.com/ttakano/climblog/internal/server/repositories/repotest"
)

func seedMountain(rm *repotest.Manager) *models.Mountain {
	return rm.MountainsRepo.Seed(&models.Mountain{Name: "Fuji", Prefecture: "Shizuoka", Elevation: 3776})
}

func TestRecordService_Create_OwnerIsActingPrincipal(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewRecordService(db, rm, testConfig())
	seedMountain(rm)

	expectTx(mock)
	rec, err := s.Create(context.Background(), hiker, RecordInput{
		Mountain:  i64ptr(1),
		ClimbDate: strptr("2024-08-11"),
		Comment:   strptr("clear skies"),
	})
	require.NoError(t, err)
	assert.Equal(t, hiker.ID, rec.UserID)
	assert.Equal(t, "clear skies", rec.Comment)
	assert.Equal(t, time.Date(2024, 8, 11, 0, 0, 0, 0, time.UTC), rec.ClimbDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordService_Create_RequiresPrincipal(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewRecordService(db, rm, testConfig())
	seedMountain(rm)

	_, err := s.Create(context.Background(), nil, RecordInput{
		Mountain:  i64ptr(1),
		ClimbDate: strptr("2024-08-11"),
	})
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))
}

func TestRecordService_Create_DanglingMountainIsValidationError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewRecordService(db, rm, testConfig())

	expectTxRollback(mock)
	_, err := s.Create(context.Background(), hiker, RecordInput{
		Mountain:  i64ptr(99),
		ClimbDate: strptr("2024-08-11"),
	})
	require.Error(t, err)

	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields["mountain"], "mountain does not exist")
}

func TestRecordService_Create_CollectsFieldErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewRecordService(db, newFakeRepoManager(), testConfig())

	_, err := s.Create(context.Background(), hiker, RecordInput{
		ClimbDate: strptr("11/08/2024"),
	})
	require.Error(t, err)

	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "mountain")
	assert.Contains(t, ve.Fields["climb_date"], "invalid date, expected YYYY-MM-DD")
}

func seedRecord(t *testing.T, s *RecordService) *models.ClimbRecord {
	t.Helper()
	rec, err := s.Create(context.Background(), hiker, RecordInput{
		Mountain:  i64ptr(1),
		ClimbDate: strptr("2024-08-11"),
		Comment:   strptr("first ascent"),
	})
	require.NoError(t, err)
	return rec
}

func TestRecordService_Update_PartialPatch(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewRecordService(db, rm, testConfig())
	seedMountain(rm)

	expectTx(mock)
	rec := seedRecord(t, s)

	expectTx(mock)
	updated, err := s.Update(context.Background(), hiker, rec.ID, RecordInput{
		Comment: strptr("rewritten"),
	})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", updated.Comment)
	// absent fields keep prior values
	assert.Equal(t, rec.ClimbDate, updated.ClimbDate)
	assert.Equal(t, rec.MountainID, updated.MountainID)
}

func TestRecordService_Update_NoStaffOverride(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewRecordService(db, rm, testConfig())
	seedMountain(rm)

	expectTx(mock)
	rec := seedRecord(t, s)

	// a staff principal who is not the owner is still refused
	expectTxRollback(mock)
	_, err := s.Update(context.Background(), staff, rec.ID, RecordInput{
		Comment: strptr("staff edit"),
	})
	assert.True(t, errors.Is(err, common.ErrorForbidden))

	_, err = s.Update(context.Background(), nil, rec.ID, RecordInput{
		Comment: strptr("anonymous edit"),
	})
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))
}

func TestRecordService_Update_EmptyPatch(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewRecordService(db, newFakeRepoManager(), testConfig())

	_, err := s.Update(context.Background(), hiker, 1, RecordInput{})
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestRecordService_Update_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	s := NewRecordService(db, newFakeRepoManager(), testConfig())

	expectTxRollback(mock)
	_, err := s.Update(context.Background(), hiker, 404, RecordInput{Comment: strptr("x")})
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestRecordService_Delete(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewRecordService(db, rm, testConfig())
	seedMountain(rm)

	expectTx(mock)
	rec := seedRecord(t, s)

	expectTxRollback(mock)
	err := s.Delete(context.Background(), staff, rec.ID)
	assert.True(t, errors.Is(err, common.ErrorForbidden), "staff non-owner may not delete")

	expectTx(mock)
	require.NoError(t, s.Delete(context.Background(), hiker, rec.ID))

	_, err = s.Get(context.Background(), rec.ID)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestRecordService_ListMine(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewRecordService(db, rm, testConfig())
	seedMountain(rm)

	for i := 0; i < MyPageSize+3; i++ {
		expectTx(mock)
		_, err := s.Create(context.Background(), hiker, RecordInput{
			Mountain:  i64ptr(1),
			ClimbDate: strptr("2024-08-11"),
		})
		require.NoError(t, err)
	}

	// someone else's record is not mine
	expectTx(mock)
	_, err := s.Create(context.Background(), staff, RecordInput{
		Mountain:  i64ptr(1),
		ClimbDate: strptr("2024-08-12"),
	})
	require.NoError(t, err)

	recs, total, err := s.ListMine(context.Background(), hiker, 1)
	require.NoError(t, err)
	assert.Equal(t, MyPageSize+3, total)
	assert.Len(t, recs, MyPageSize)

	recs, _, err = s.ListMine(context.Background(), hiker, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	_, _, err = s.ListMine(context.Background(), nil, 1)
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))
}
