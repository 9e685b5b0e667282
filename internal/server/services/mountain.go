package services

import (
	"context"
	"database/sql"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/dbx"
	sc "github.com/ttakano/climblog/internal/server/config"
	"github.com/ttakano/climblog/internal/server/models"
	"github.com/ttakano/climblog/internal/server/policy"
	"github.com/ttakano/climblog/internal/server/repositories/repomanager"
)

// MountainInput doubles as the create payload and the patch payload.
// Pointers distinguish "absent" from zero values so partial updates only
// touch the fields the caller sent.
type MountainInput struct {
	Name       *string `json:"name"`
	Prefecture *string `json:"prefecture"`
	Elevation  *int    `json:"elevation"`
}

func (in MountainInput) empty() bool {
	return in.Name == nil && in.Prefecture == nil && in.Elevation == nil
}

type MountainService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewMountainService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *MountainService {
	return &MountainService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// List returns mountains ordered by name, optionally filtered by a
// case-insensitive name substring. Public.
func (s *MountainService) List(ctx context.Context, nameFilter string) ([]*models.Mountain, error) {
	return s.repomanager.Mountains(s.db).List(ctx, nameFilter)
}

// Get returns one mountain. Public.
func (s *MountainService) Get(ctx context.Context, id int64) (*models.Mountain, error) {
	return s.repomanager.Mountains(s.db).GetByID(ctx, id)
}

// Create adds a mountain; any authenticated principal may do this.
func (s *MountainService) Create(ctx context.Context, p *policy.Principal, in MountainInput) (*models.Mountain, error) {

	if err := policy.CanCreateMountain(p).Err(); err != nil {
		return nil, err
	}

	ve := common.NewValidationError()
	if in.Name == nil || *in.Name == "" {
		ve.Add("name", "this field is required")
	}
	if in.Prefecture == nil || *in.Prefecture == "" {
		ve.Add("prefecture", "this field is required")
	}
	if in.Elevation == nil {
		ve.Add("elevation", "this field is required")
	} else if *in.Elevation < 0 {
		ve.Add("elevation", "must not be negative")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	m := &models.Mountain{Name: *in.Name, Prefecture: *in.Prefecture, Elevation: *in.Elevation}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		m, err = s.repomanager.Mountains(tx).Create(ctx, m)
		return err
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Update applies a partial update; staff only. Fields absent from the
// payload keep their prior values; an empty payload is rejected.
func (s *MountainService) Update(ctx context.Context, p *policy.Principal, id int64, in MountainInput) (*models.Mountain, error) {

	// staff gate needs no resource data, so a missing id is not revealed
	// to callers who could not mutate it anyway
	if err := policy.CanMutateMountain(p).Err(); err != nil {
		return nil, err
	}

	ve := common.NewValidationError()
	if in.empty() {
		ve.Add("non_field_errors", "nothing to update")
	}
	if in.Name != nil && *in.Name == "" {
		ve.Add("name", "must not be blank")
	}
	if in.Prefecture != nil && *in.Prefecture == "" {
		ve.Add("prefecture", "must not be blank")
	}
	if in.Elevation != nil && *in.Elevation < 0 {
		ve.Add("elevation", "must not be negative")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	var m *models.Mountain
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Mountains(tx)

		var err error
		m, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			m.Name = *in.Name
		}
		if in.Prefecture != nil {
			m.Prefecture = *in.Prefecture
		}
		if in.Elevation != nil {
			m.Elevation = *in.Elevation
		}

		return repo.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Delete removes a mountain and, through the store's cascade, every climb
// record that references it. Staff only.
func (s *MountainService) Delete(ctx context.Context, p *policy.Principal, id int64) error {

	if err := policy.CanMutateMountain(p).Err(); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Mountains(tx).Delete(ctx, id)
	})
}
