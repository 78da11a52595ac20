package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
)

type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func (r *PermissionRepository) Create(ctx context.Context, p *entity.Permission) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO permissions (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*entity.Permission, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PermissionRepository) GetByName(ctx context.Context, name string) (*entity.Permission, error) {
	return r.getBy(ctx, "name", name)
}

func (r *PermissionRepository) getBy(ctx context.Context, column, value string) (*entity.Permission, error) {
	p := &entity.Permission{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM permissions
		WHERE `+column+` = $1
	`, value)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PermissionRepository) List(ctx context.Context) ([]entity.Permission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), created_at, updated_at
		FROM permissions
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := []entity.Permission{}
	for rows.Next() {
		var p entity.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *PermissionRepository) Update(ctx context.Context, p *entity.Permission) error {
	p.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE permissions SET name = $1, description = $2, updated_at = $3 WHERE id = $4
	`, p.Name, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PermissionRepository = (*PermissionRepository)(nil)
