package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
	"github.com/velora-social/velora-api/pkg/helpers"
)

// ImportRecord is one entry of a bulk user import payload.
type ImportRecord struct {
	Email             string            `json:"email"`
	Name              string            `json:"name"`
	PlainPassword     string            `json:"plainPassword"`
	LanguageCode      string            `json:"languageCode"`
	Timezone          string            `json:"timezone"`
	ProfilePictureURL string            `json:"profilePictureUrl"`
	AppPreferences    map[string]any    `json:"appPreferences"`
	NotificationPrefs map[string]any    `json:"notificationPreferences"`
	SocialLinks       map[string]string `json:"socialLinks"`
}

// ImportError describes why a single record was rejected.
type ImportError struct {
	Index   int    `json:"index"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ImportResult summarizes a bulk import. Failures never abort the batch;
// they are collected here instead.
type ImportResult struct {
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors"`
}

// ImportService performs admin-only bulk user imports: every record is
// validated up front, then all valid records are committed in one
// transaction.
type ImportService struct {
	Users  repository.UserRepository
	Logger *logrus.Logger
}

func NewImportService(users repository.UserRepository, logger *logrus.Logger) *ImportService {
	return &ImportService{Users: users, Logger: logger}
}

func (s *ImportService) Import(ctx context.Context, principal *entity.User, records []ImportRecord) (*ImportResult, error) {
	if err := RequireAdmin(principal); err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []ImportError{}}
	valid := make([]*entity.User, 0, len(records))
	validIdx := make([]int, 0, len(records))

	for i, rec := range records {
		email := rec.Email
		if email == "" {
			email = "N/A"
		}
		if rec.Email == "" || rec.Name == "" || rec.PlainPassword == "" {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Index:   i,
				Email:   email,
				Message: "email, name and password are required for each user",
			})
			continue
		}
		hash, err := helpers.HashPassword(rec.PlainPassword)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{Index: i, Email: email, Message: err.Error()})
			continue
		}
		valid = append(valid, &entity.User{
			Email:             rec.Email,
			Name:              rec.Name,
			Password:          hash,
			LegacyRoles:       []string{entity.RoleUser},
			LanguageCode:      rec.LanguageCode,
			Timezone:          rec.Timezone,
			ProfilePictureURL: rec.ProfilePictureURL,
			AppPreferences:    rec.AppPreferences,
			NotificationPrefs: rec.NotificationPrefs,
			SocialLinks:       rec.SocialLinks,
		})
		validIdx = append(validIdx, i)
	}

	if len(valid) > 0 {
		inserted, err := s.Users.InsertBatch(ctx, valid)
		if err != nil {
			return nil, err
		}
		for j, ok := range inserted {
			if ok {
				result.Success++
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Index:   validIdx[j],
				Email:   valid[j].Email,
				Message: "there is already an account with this email",
			})
		}
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"success": result.Success, "failed": result.Failed}).Info("bulk user import finished")
	}
	return result, nil
}
