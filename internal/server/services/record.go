package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/dbx"
	sc "github.com/ttakano/climblog/internal/server/config"
	"github.com/ttakano/climblog/internal/server/models"
	"github.com/ttakano/climblog/internal/server/policy"
	"github.com/ttakano/climblog/internal/server/repositories/repomanager"
)

// MyPageSize is how many records a "my records" page holds.
const MyPageSize = 10

const climbDateLayout = "2006-01-02"

// RecordInput doubles as the create payload and the patch payload.
// There is deliberately no owner field: the owner is always the acting
// principal, whatever the request body says.
type RecordInput struct {
	Mountain  *int64  `json:"mountain"`
	ClimbDate *string `json:"climb_date"`
	Comment   *string `json:"comment"`
}

func (in RecordInput) empty() bool {
	return in.Mountain == nil && in.ClimbDate == nil && in.Comment == nil
}

type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewRecordService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *RecordService {
	return &RecordService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// List returns all records, newest climb first. Public.
func (s *RecordService) List(ctx context.Context) ([]*models.ClimbRecord, error) {
	return s.repomanager.Records(s.db).List(ctx)
}

// Get returns one record. Public.
func (s *RecordService) Get(ctx context.Context, id int64) (*models.ClimbRecord, error) {
	return s.repomanager.Records(s.db).GetByID(ctx, id)
}

// ListByMountain returns the records logged against one mountain. Public.
func (s *RecordService) ListByMountain(ctx context.Context, mountainID int64) ([]*models.ClimbRecord, error) {
	return s.repomanager.Records(s.db).ListByMountain(ctx, mountainID)
}

// ListMine returns one page of the principal's own records plus the total
// count, for the paginated "my records" view.
func (s *RecordService) ListMine(ctx context.Context, p *policy.Principal, page int) ([]*models.ClimbRecord, int, error) {
	if p == nil {
		return nil, 0, common.ErrorUnauthenticated
	}
	if page < 1 {
		page = 1
	}

	repo := s.repomanager.Records(s.db)

	total, err := repo.CountByUser(ctx, p.ID)
	if err != nil {
		return nil, 0, err
	}

	recs, err := repo.ListByUser(ctx, p.ID, MyPageSize, (page-1)*MyPageSize)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// Create logs a climb. Requires a principal, who becomes the owner.
func (s *RecordService) Create(ctx context.Context, p *policy.Principal, in RecordInput) (*models.ClimbRecord, error) {

	if err := policy.CanCreateRecord(p).Err(); err != nil {
		return nil, err
	}

	ve := common.NewValidationError()
	if in.Mountain == nil {
		ve.Add("mountain", "this field is required")
	}
	var climbDate time.Time
	if in.ClimbDate == nil || *in.ClimbDate == "" {
		ve.Add("climb_date", "this field is required")
	} else {
		var err error
		climbDate, err = time.Parse(climbDateLayout, *in.ClimbDate)
		if err != nil {
			ve.Add("climb_date", "invalid date, expected YYYY-MM-DD")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	rec := &models.ClimbRecord{
		UserID:     p.ID, // server-side, never from the payload
		Username:   p.Username,
		MountainID: *in.Mountain,
		ClimbDate:  climbDate,
	}
	if in.Comment != nil {
		rec.Comment = *in.Comment
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// a dangling mountain reference is a validation problem, not a 404
		if _, err := s.repomanager.Mountains(tx).GetByID(ctx, rec.MountainID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				ve.Add("mountain", "mountain does not exist")
				return ve
			}
			return err
		}

		var err error
		rec, err = s.repomanager.Records(tx).Create(ctx, rec)
		return err
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// Update applies a partial update; owner only, no staff override. Fields
// absent from the payload keep their prior values; an empty payload is
// rejected before anything is loaded.
func (s *RecordService) Update(ctx context.Context, p *policy.Principal, id int64, in RecordInput) (*models.ClimbRecord, error) {

	if p == nil {
		return nil, common.ErrorUnauthenticated
	}

	ve := common.NewValidationError()
	if in.empty() {
		ve.Add("non_field_errors", "nothing to update")
	}
	var climbDate time.Time
	if in.ClimbDate != nil {
		var err error
		climbDate, err = time.Parse(climbDateLayout, *in.ClimbDate)
		if err != nil {
			ve.Add("climb_date", "invalid date, expected YYYY-MM-DD")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	var rec *models.ClimbRecord
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Records(tx)

		var err error
		rec, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := policy.CanMutateRecord(p, rec.UserID).Err(); err != nil {
			return err
		}

		if in.Mountain != nil {
			if _, err := s.repomanager.Mountains(tx).GetByID(ctx, *in.Mountain); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					ve.Add("mountain", "mountain does not exist")
					return ve
				}
				return err
			}
			rec.MountainID = *in.Mountain
		}
		if in.ClimbDate != nil {
			rec.ClimbDate = climbDate
		}
		if in.Comment != nil {
			rec.Comment = *in.Comment
		}

		return repo.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	// reload so updated_at reflects the write
	return s.repomanager.Records(s.db).GetByID(ctx, rec.ID)
}

// Delete removes a record; owner only, no staff override.
func (s *RecordService) Delete(ctx context.Context, p *policy.Principal, id int64) error {

	if p == nil {
		return common.ErrorUnauthenticated
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Records(tx)

		rec, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := policy.CanMutateRecord(p, rec.UserID).Err(); err != nil {
			return err
		}

		return repo.Delete(ctx, rec.ID)
	})
}
