package records

import (
	"context"

	"github.com/ttakano/climblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.ClimbRecord) (*models.ClimbRecord, error)
	GetByID(ctx context.Context, id int64) (*models.ClimbRecord, error)
	// Update persists climb_date, comment, mountain_id and photo_key and
	// refreshes updated_at.
	Update(ctx context.Context, rec *models.ClimbRecord) error
	Delete(ctx context.Context, id int64) error
	// List returns all records, newest climb first.
	List(ctx context.Context) ([]*models.ClimbRecord, error)
	// ListByMountain returns the records for one mountain, newest climb first.
	ListByMountain(ctx context.Context, mountainID int64) ([]*models.ClimbRecord, error)
	// ListByUser returns one page of a user's records, newest climb first.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.ClimbRecord, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}
