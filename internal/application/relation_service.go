package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
)

var (
	ErrSelfFollow       = errors.New("you cannot follow yourself")
	ErrSelfUnfollow     = errors.New("you cannot unfollow yourself")
	ErrAlreadyFollowing = errors.New("you already follow this user")
	ErrNotFollowing     = errors.New("you do not follow this user")
)

// UserSummary is the projection of a user shown in follower/following lists
// and follow confirmations.
type UserSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

func summarize(u *entity.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, ProfilePictureURL: u.ProfilePictureURL}
}

// RelationPage is one page of a follower/following listing. Pages are
// 1-indexed; TotalPages is the ceiling of TotalItems over ItemsPerPage.
type RelationPage struct {
	Items        []UserSummary `json:"items"`
	TotalItems   int           `json:"totalItems"`
	Page         int           `json:"page"`
	ItemsPerPage int           `json:"itemsPerPage"`
	TotalPages   int           `json:"totalPages"`
}

// RelationService maintains the directed follow graph between users.
type RelationService struct {
	Users   repository.UserRepository
	Follows repository.FollowRepository
	Logger  *logrus.Logger
}

func NewRelationService(users repository.UserRepository, follows repository.FollowRepository, logger *logrus.Logger) *RelationService {
	return &RelationService{Users: users, Follows: follows, Logger: logger}
}

// Follow records that follower now follows the target user. Self-follows and
// duplicate edges are rejected before any write; a concurrent duplicate
// surfaces as the store's uniqueness conflict and maps to the same error.
func (s *RelationService) Follow(ctx context.Context, follower *entity.User, targetID string) (*entity.User, error) {
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if follower.ID == target.ID {
		return nil, ErrSelfFollow
	}
	following, err := s.Follows.Exists(ctx, follower.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if following {
		return nil, ErrAlreadyFollowing
	}
	if err := s.Follows.Insert(ctx, follower.ID, target.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"follower": follower.ID, "following": target.ID}).Info("follow edge created")
	}
	return target, nil
}

// Unfollow removes the follower -> target edge.
func (s *RelationService) Unfollow(ctx context.Context, follower *entity.User, targetID string) (*entity.User, error) {
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if follower.ID == target.ID {
		return nil, ErrSelfUnfollow
	}
	removed, err := s.Follows.Delete(ctx, follower.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotFollowing
	}
	return target, nil
}

// Followers returns one page of the users following userID. Page and
// itemsPerPage are expected pre-clamped by the HTTP boundary.
func (s *RelationService) Followers(ctx context.Context, userID string, page, itemsPerPage int) (*RelationPage, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	total, err := s.Follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.Follows.Followers(ctx, userID, itemsPerPage, (page-1)*itemsPerPage)
	if err != nil {
		return nil, err
	}
	return newRelationPage(users, total, page, itemsPerPage), nil
}

// Following returns one page of the users that userID follows.
func (s *RelationService) Following(ctx context.Context, userID string, page, itemsPerPage int) (*RelationPage, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	total, err := s.Follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.Follows.Following(ctx, userID, itemsPerPage, (page-1)*itemsPerPage)
	if err != nil {
		return nil, err
	}
	return newRelationPage(users, total, page, itemsPerPage), nil
}

func newRelationPage(users []entity.User, total, page, itemsPerPage int) *RelationPage {
	items := make([]UserSummary, 0, len(users))
	for i := range users {
		items = append(items, summarize(&users[i]))
	}
	return &RelationPage{
		Items:        items,
		TotalItems:   total,
		Page:         page,
		ItemsPerPage: itemsPerPage,
		TotalPages:   (total + itemsPerPage - 1) / itemsPerPage,
	}
}
