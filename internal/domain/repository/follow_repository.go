package repository

import (
	"context"

	"github.com/velora-social/velora-api/internal/domain/entity"
)

// FollowRepository persists the directed follow graph. An edge is stored
// exactly once as (follower, following); both traversal directions are
// queries over that single row, so the forward and inverse views cannot
// drift apart.
type FollowRepository interface {
	// Insert adds the edge. Returns ErrDuplicate when the edge exists,
	// which also absorbs concurrent double-follows via the primary key.
	Insert(ctx context.Context, followerID, followingID string) error
	// Delete removes the edge; removed is false when no edge existed.
	Delete(ctx context.Context, followerID, followingID string) (removed bool, err error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)

	Followers(ctx context.Context, userID string, limit, offset int) ([]entity.User, error)
	Following(ctx context.Context, userID string, limit, offset int) ([]entity.User, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}
