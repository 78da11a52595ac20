package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
)

// FollowRepository stores each follow edge as one user_followers row.
// The composite primary key makes concurrent duplicate follows surface as
// unique violations instead of duplicate edges.
type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Insert(ctx context.Context, followerID, followingID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_followers (follower_user_id, following_user_id)
		VALUES ($1, $2)
	`, followerID, followingID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM user_followers
		WHERE follower_user_id = $1 AND following_user_id = $2
	`, followerID, followingID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_followers
			WHERE follower_user_id = $1 AND following_user_id = $2
		)
	`, followerID, followingID).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) Followers(ctx context.Context, userID string, limit, offset int) ([]entity.User, error) {
	return r.listEdge(ctx, `
		SELECT `+userColumns+`
		FROM users
		JOIN user_followers f ON f.follower_user_id = users.id
		WHERE f.following_user_id = $1
		ORDER BY f.created_at, users.id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *FollowRepository) Following(ctx context.Context, userID string, limit, offset int) ([]entity.User, error) {
	return r.listEdge(ctx, `
		SELECT `+userColumns+`
		FROM users
		JOIN user_followers f ON f.following_user_id = users.id
		WHERE f.follower_user_id = $1
		ORDER BY f.created_at, users.id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *FollowRepository) listEdge(ctx context.Context, query, userID string, limit, offset int) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_followers WHERE following_user_id = $1
	`, userID).Scan(&n)
	return n, err
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_followers WHERE follower_user_id = $1
	`, userID).Scan(&n)
	return n, err
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
