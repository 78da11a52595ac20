package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
	"github.com/velora-social/velora-api/pkg/helpers"
)

// PublicProfile is the projection any visitor may see. It deliberately has
// no email, roles or preference fields.
type PublicProfile struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	ProfilePictureURL string            `json:"profilePictureUrl"`
	CoverPictureURL   string            `json:"coverPictureUrl"`
	ShortBio          map[string]string `json:"shortBio"`
	LongBio           map[string]string `json:"longBio"`
	Interests         []string          `json:"interests"`
	SocialLinks       map[string]string `json:"socialLinks"`
	FollowersCount    int               `json:"followersCount"`
	FollowingCount    int               `json:"followingCount"`
}

// FullProfile extends the public projection with everything only the owner
// or an admin may see.
type FullProfile struct {
	PublicProfile
	Email             string         `json:"email"`
	Roles             []string       `json:"roles"`
	LanguageCode      string         `json:"languageCode"`
	Timezone          string         `json:"timezone"`
	AppPreferences    map[string]any `json:"appPreferences"`
	NotificationPrefs map[string]any `json:"notificationPreferences"`
}

// ProfileService assembles profile projections and applies profile
// mutations. Every mutation checks the owner-or-admin gate before touching
// any field.
type ProfileService struct {
	Users        repository.UserRepository
	Follows      repository.FollowRepository
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	Logger       *logrus.Logger
}

func NewProfileService(users repository.UserRepository, follows repository.FollowRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esUsersIndex string, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Users: users, Follows: follows, GCS: gcs, GCSBucket: gcsBucket, ES: es, ESUsersIndex: esUsersIndex, Logger: logger}
}

func (s *ProfileService) subject(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *ProfileService) counts(ctx context.Context, userID string) (followers, following int, err error) {
	followers, err = s.Follows.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err = s.Follows.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (s *ProfileService) publicProjection(ctx context.Context, u *entity.User) (PublicProfile, error) {
	followers, following, err := s.counts(ctx, u.ID)
	if err != nil {
		return PublicProfile{}, err
	}
	return PublicProfile{
		ID:                u.ID,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
		CoverPictureURL:   u.CoverPictureURL,
		ShortBio:          u.ShortBio,
		LongBio:           u.LongBio,
		Interests:         u.Interests,
		SocialLinks:       u.SocialLinks,
		FollowersCount:    followers,
		FollowingCount:    following,
	}, nil
}

// GetFullProfile returns the complete profile of subjectID. Only the subject
// itself or an admin may see it.
func (s *ProfileService) GetFullProfile(ctx context.Context, viewer *entity.User, subjectID string) (*FullProfile, error) {
	u, err := s.subject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !canEditUser(viewer, u) {
		return nil, ErrAccessDenied
	}
	pub, err := s.publicProjection(ctx, u)
	if err != nil {
		return nil, err
	}
	return &FullProfile{
		PublicProfile:     pub,
		Email:             u.Email,
		Roles:             u.RoleNames(),
		LanguageCode:      u.LanguageCode,
		Timezone:          u.Timezone,
		AppPreferences:    u.AppPreferences,
		NotificationPrefs: u.NotificationPrefs,
	}, nil
}

// GetPublicProfile returns the visitor-visible projection. No permission
// check applies.
func (s *ProfileService) GetPublicProfile(ctx context.Context, subjectID string) (*PublicProfile, error) {
	u, err := s.subject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	pub, err := s.publicProjection(ctx, u)
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

// mutate loads the subject, runs the edit gate, applies fn and persists.
func (s *ProfileService) mutate(ctx context.Context, principal *entity.User, subjectID string, fn func(*entity.User)) (*entity.User, error) {
	u, err := s.subject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !canEditUser(principal, u) {
		return nil, ErrAccessDenied
	}
	fn(u)
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.reindex(ctx, u)
	return u, nil
}

// UpdateShortBio sets the short bio for one language. An empty language
// defaults to the subject's own locale; other languages' entries are kept.
func (s *ProfileService) UpdateShortBio(ctx context.Context, principal *entity.User, subjectID, content, language string) (*entity.User, error) {
	return s.mutate(ctx, principal, subjectID, func(u *entity.User) {
		if language == "" {
			language = u.LanguageCode
		}
		u.ShortBio[language] = content
	})
}

// UpdateLongBio sets the long bio for one language, same semantics as
// UpdateShortBio.
func (s *ProfileService) UpdateLongBio(ctx context.Context, principal *entity.User, subjectID, content, language string) (*entity.User, error) {
	return s.mutate(ctx, principal, subjectID, func(u *entity.User) {
		if language == "" {
			language = u.LanguageCode
		}
		u.LongBio[language] = content
	})
}

// UpdateInterests replaces the whole interest list.
func (s *ProfileService) UpdateInterests(ctx context.Context, principal *entity.User, subjectID string, interests []string) (*entity.User, error) {
	if interests == nil {
		interests = []string{}
	}
	return s.mutate(ctx, principal, subjectID, func(u *entity.User) {
		u.Interests = interests
	})
}

// UpdateSocialLinks replaces the whole provider -> URL map.
func (s *ProfileService) UpdateSocialLinks(ctx context.Context, principal *entity.User, subjectID string, links map[string]string) (*entity.User, error) {
	if links == nil {
		links = map[string]string{}
	}
	return s.mutate(ctx, principal, subjectID, func(u *entity.User) {
		u.SocialLinks = links
	})
}

// UpdateProfilePicture replaces the profile picture URL.
func (s *ProfileService) UpdateProfilePicture(ctx context.Context, principal *entity.User, subjectID, url string) (*entity.User, error) {
	return s.mutate(ctx, principal, subjectID, func(u *entity.User) {
		u.ProfilePictureURL = url
	})
}

// UpdateCoverPicture replaces the cover picture URL.
func (s *ProfileService) UpdateCoverPicture(ctx context.Context, principal *entity.User, subjectID, url string) (*entity.User, error) {
	return s.mutate(ctx, principal, subjectID, func(u *entity.User) {
		u.CoverPictureURL = url
	})
}

// UploadProfilePicture streams an image to object storage and points the
// profile picture URL at it.
func (s *ProfileService) UploadProfilePicture(ctx context.Context, principal *entity.User, subjectID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("object storage not configured")
	}
	u, err := s.subject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !canEditUser(principal, u) {
		return nil, ErrAccessDenied
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profile-pictures", u.ID, uuid.NewString()+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}

	u.ProfilePictureURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.reindex(ctx, u)
	return u, nil
}

func (s *ProfileService) reindex(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	if err := helpers.IndexUserDocument(ctx, s.ES, s.ESUsersIndex, helpers.UserDocument{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
	}); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index update failed")
	}
}
