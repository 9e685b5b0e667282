package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/server/auth"
	"github.com/ttakano/climblog/internal/server/models"
	"github.com/ttakano/climblog/internal/server/policy"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }
func i64ptr(i int64) *int64   { return &i }

func TestUserService_Register_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewUserService(db, rm, testConfig())

	expectTx(mock)

	u, err := s.Register(context.Background(), RegisterInput{
		Username: strptr("alice"),
		Email:    strptr("alice@example.com"),
		Password: strptr("climb every mountain"),
	})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)

	// the credential is stored hashed, never verbatim
	assert.NotEqual(t, "climb every mountain", u.PasswordHash)
	assert.True(t, auth.VerifyPassword("climb every mountain", u.PasswordHash))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_CollectsAllFieldErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, newFakeRepoManager(), testConfig())

	_, err := s.Register(context.Background(), RegisterInput{
		Password: strptr("short"),
		Email:    strptr("not-an-email"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrorValidation))

	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "password")
	assert.Contains(t, ve.Fields, "email")
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewUserService(db, rm, testConfig())

	expectTx(mock)
	_, err := s.Register(context.Background(), RegisterInput{
		Username: strptr("alice"),
		Password: strptr("climb every mountain"),
	})
	require.NoError(t, err)

	expectTxRollback(mock)
	_, err = s.Register(context.Background(), RegisterInput{
		Username: strptr("alice"),
		Password: strptr("another password"),
	})
	require.Error(t, err)

	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields["username"], "a user with that username already exists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Authenticate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewUserService(db, rm, testConfig())

	expectTx(mock)
	_, err := s.Register(context.Background(), RegisterInput{
		Username: strptr("alice"),
		Password: strptr("climb every mountain"),
	})
	require.NoError(t, err)

	p, err := s.Authenticate(context.Background(), "alice", "climb every mountain")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.False(t, p.Staff)

	_, err = s.Authenticate(context.Background(), "alice", "wrong")
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))

	_, err = s.Authenticate(context.Background(), "nobody", "whatever")
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))
}

func TestUserService_List_StaffOnly(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewUserService(db, rm, testConfig())

	rm.UsersRepo.Seed(&models.User{Username: "alice", PasswordHash: "x"})
	rm.UsersRepo.Seed(&models.User{Username: "root", PasswordHash: "x", Staff: true})

	_, err := s.List(context.Background(), nil)
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))

	_, err = s.List(context.Background(), &policy.Principal{ID: 1, Username: "alice"})
	assert.True(t, errors.Is(err, common.ErrorForbidden))

	list, err := s.List(context.Background(), &policy.Principal{ID: 2, Username: "root", Staff: true})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUserService_GetPrincipal(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewUserService(db, rm, testConfig())

	rm.UsersRepo.Seed(&models.User{ID: 7, Username: "alice", PasswordHash: "x", Staff: true})

	p, err := s.GetPrincipal(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.True(t, p.Staff)

	_, err = s.GetPrincipal(context.Background(), 99)
	assert.True(t, errors.Is(err, common.ErrorUnauthenticated))
}
