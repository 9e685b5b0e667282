// Package mountains provides the PostgreSQL-backed repository for the
// shared mountain reference data.
package mountains

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/dbx"
	"github.com/ttakano/climblog/internal/server/models"
)

// PostgresRepository implements mountain storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Mountain) (*models.Mountain, error) {
	query := `
		INSERT INTO mountains (name, prefecture, elevation)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, m.Name, m.Prefecture, m.Elevation).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Mountain, error) {
	query := `
		SELECT id, name, prefecture, elevation FROM mountains
		WHERE id = $1
	`
	m := &models.Mountain{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.Prefecture, &m.Elevation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) Update(ctx context.Context, m *models.Mountain) error {
	query := `
		UPDATE mountains SET name = $2, prefecture = $3, elevation = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, m.ID, m.Name, m.Prefecture, m.Elevation)
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

// Delete removes the mountain; dependent climb records go with it via the
// ON DELETE CASCADE constraint.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mountains WHERE id = $1`, id)
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

func (r *PostgresRepository) List(ctx context.Context, nameFilter string) ([]*models.Mountain, error) {
	query := `
		SELECT id, name, prefecture, elevation FROM mountains
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, nameFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to select mountains: %w", err)
	}
	defer rows.Close()

	var result []*models.Mountain
	for rows.Next() {
		var item models.Mountain
		if err := rows.Scan(&item.ID, &item.Name, &item.Prefecture, &item.Elevation); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
