package application

import (
	"context"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
	"github.com/velora-social/velora-api/pkg/helpers"
	"github.com/velora-social/velora-api/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("there is already an account with this email")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

const sessionTTL = 24 * time.Hour

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// AuthService covers registration, login, sessions and account credentials.
type AuthService struct {
	Users        repository.UserRepository
	Roles        repository.RoleRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Mail         *helpers.RabbitPublisher
	ES           *elasticsearch.Client
	ESUsersIndex string
	Logger       *logrus.Logger
}

func NewAuthService(users repository.UserRepository, roles repository.RoleRepository, jwt *helpers.JWTManager, rdb *redis.Client, mail *helpers.RabbitPublisher, es *elasticsearch.Client, esUsersIndex string, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:        users,
		Roles:        roles,
		JWT:          jwt,
		Redis:        rdb,
		Mail:         mail,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Logger:       logger,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Register creates a new account with the default role and hashed password.
func (s *AuthService) Register(ctx context.Context, email, name, plainPassword string) (*entity.User, error) {
	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(plainPassword)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:       email,
		Name:        name,
		Password:    hash,
		LegacyRoles: []string{entity.RoleUser},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.sendWelcomeEmail(ctx, u)
	s.indexUser(ctx, u)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing
// tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates an access/refresh pair and records a session in
// Redis keyed by user id.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Login authenticates and issues tokens in one step.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session and issues a fresh token pair. The refresh
// token must carry the session id currently stored in Redis.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, *entity.User, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, nil, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, nil, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, err := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, nil, ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, u, nil
}

// Logout drops the user's session.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}

// LoadPrincipal loads a user together with its assigned roles and their
// permissions. This is what the auth middleware hands to every handler.
func (s *AuthService) LoadPrincipal(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	roles, err := s.Roles.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.AssignedRoles = roles
	return u, nil
}

// ChangePassword verifies the current password before storing a new hash.
// Length validation on the new password happens at the HTTP boundary.
func (s *AuthService) ChangePassword(ctx context.Context, principal *entity.User, currentPassword, newPassword string) error {
	if !helpers.CompareHashAndPassword(principal.Password, currentPassword) {
		return ErrWrongPassword
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, principal.ID, hash)
}

// SearchUsers performs a multi_match search on email and name in the users
// index.
func (s *AuthService) SearchUsers(ctx context.Context, query string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return helpers.SearchUserDocuments(ctx, s.ES, s.ESUsersIndex, query, size)
}

func (s *AuthService) sendWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}

func (s *AuthService) indexUser(ctx context.Context, u *entity.User) {
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
