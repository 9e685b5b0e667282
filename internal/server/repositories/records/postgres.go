// Package records provides the PostgreSQL-backed repository for climb
// records. All reads join the owner's username for wire projections.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/dbx"
	"github.com/ttakano/climblog/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `
	SELECT r.id, r.user_id, u.username, r.mountain_id, r.climb_date,
	       r.comment, r.photo_key, r.created_at, r.updated_at
	FROM climb_records r
	JOIN users u ON u.id = r.user_id
`

func (r *PostgresRepository) Create(ctx context.Context, rec *models.ClimbRecord) (*models.ClimbRecord, error) {
	query := `
		INSERT INTO climb_records (user_id, mountain_id, climb_date, comment, photo_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.MountainID, rec.ClimbDate, rec.Comment, rec.PhotoKey).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.ClimbRecord, error) {
	rec := &models.ClimbRecord{}
	err := r.db.QueryRowContext(ctx, selectColumns+` WHERE r.id = $1`, id).Scan(
		&rec.ID, &rec.UserID, &rec.Username, &rec.MountainID, &rec.ClimbDate,
		&rec.Comment, &rec.PhotoKey, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *models.ClimbRecord) error {
	query := `
		UPDATE climb_records
		SET mountain_id = $2, climb_date = $3, comment = $4, photo_key = $5, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.MountainID, rec.ClimbDate, rec.Comment, rec.PhotoKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM climb_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.ClimbRecord, error) {
	return r.selectMany(ctx, selectColumns+` ORDER BY r.climb_date DESC, r.id DESC`)
}

func (r *PostgresRepository) ListByMountain(ctx context.Context, mountainID int64) ([]*models.ClimbRecord, error) {
	return r.selectMany(ctx,
		selectColumns+` WHERE r.mountain_id = $1 ORDER BY r.climb_date DESC, r.id DESC`, mountainID)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.ClimbRecord, error) {
	return r.selectMany(ctx,
		selectColumns+` WHERE r.user_id = $1 ORDER BY r.climb_date DESC, r.id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM climb_records WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.ClimbRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.ClimbRecord
	for rows.Next() {
		var item models.ClimbRecord
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Username, &item.MountainID, &item.ClimbDate,
			&item.Comment, &item.PhotoKey, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
