// Package services implements the application operations behind both the
// REST API and the web surface. Every mutating operation resolves its
// authorization through the policy package before touching storage, and
// runs its checks and writes inside one transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/dbx"
	"github.com/ttakano/climblog/internal/server/auth"
	sc "github.com/ttakano/climblog/internal/server/config"
	"github.com/ttakano/climblog/internal/server/models"
	"github.com/ttakano/climblog/internal/server/policy"
	"github.com/ttakano/climblog/internal/server/repositories/repomanager"
)

// RegisterInput is the open self-registration payload. There is no staff
// field here on purpose: staff accounts are created administratively.
type RegisterInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewUserService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// Register creates an account. No principal is required (open registration).
// Validation problems are collected per field, not short-circuited.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {

	if err := policy.CanRegister().Err(); err != nil {
		return nil, err
	}

	ve := common.NewValidationError()
	if in.Username == nil || *in.Username == "" {
		ve.Add("username", "this field is required")
	}
	if in.Password == nil || *in.Password == "" {
		ve.Add("password", "this field is required")
	} else if len(*in.Password) < 8 {
		ve.Add("password", "must be at least 8 characters")
	}

	email := ""
	if in.Email != nil && *in.Email != "" {
		if _, err := mail.ParseAddress(*in.Email); err != nil {
			ve.Add("email", "invalid email address")
		} else {
			email = *in.Email
		}
	}

	if ve.HasErrors() {
		return nil, ve
	}

	hash, err := auth.HashPassword(*in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     *in.Username,
		Email:        email,
		PasswordHash: hash,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByUsername(ctx, user.Username); err == nil {
			ve.Add("username", "a user with that username already exists")
			return ve
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		user, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate resolves a username/password pair to a principal.
// Any mismatch is ErrorUnauthenticated; lookups never reveal which part
// was wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*policy.Principal, error) {

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthenticated
	}

	return &policy.Principal{ID: user.ID, Username: user.Username, Staff: user.Staff}, nil
}

// GetPrincipal loads the principal for a previously authenticated user id
// (web session cookies carry only the id).
func (s *UserService) GetPrincipal(ctx context.Context, userID int64) (*policy.Principal, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		return nil, common.ErrorInternal
	}
	return &policy.Principal{ID: user.ID, Username: user.Username, Staff: user.Staff}, nil
}

// List returns all accounts; staff only.
func (s *UserService) List(ctx context.Context, p *policy.Principal) ([]*models.User, error) {
	if err := policy.CanListUsers(p).Err(); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).List(ctx)
}
