package mountains

import (
	"context"

	"github.com/ttakano/climblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Mountain) (*models.Mountain, error)
	GetByID(ctx context.Context, id int64) (*models.Mountain, error)
	Update(ctx context.Context, m *models.Mountain) error
	Delete(ctx context.Context, id int64) error
	// List returns mountains ordered by name; a non-empty nameFilter
	// restricts the result to case-insensitive substring matches.
	List(ctx context.Context, nameFilter string) ([]*models.Mountain, error)
}
