package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
)

// Qualified with the table name so the same column list works in joins
// against user_followers.
const userColumns = `
	users.id, users.email, users.password, users.name, users.legacy_roles,
	users.language_code, users.timezone,
	users.app_preferences, users.notification_preferences,
	COALESCE(users.profile_picture_url, ''), COALESCE(users.cover_picture_url, ''),
	users.short_bio, users.long_bio, users.interests, users.social_links,
	users.created_at, users.updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.EnsureDefaults()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (
			email, password, name, legacy_roles, language_code, timezone,
			app_preferences, notification_preferences,
			profile_picture_url, cover_picture_url,
			short_bio, long_bio, interests, social_links
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, toJSON(u.LegacyRoles), u.LanguageCode, u.Timezone,
		toJSON(u.AppPreferences), toJSON(u.NotificationPrefs),
		nullIfEmpty(u.ProfilePictureURL), nullIfEmpty(u.CoverPictureURL),
		toJSON(u.ShortBio), toJSON(u.LongBio), toJSON(u.Interests), toJSON(u.SocialLinks))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// InsertBatch stores all importable users inside one transaction. Email
// conflicts are absorbed with ON CONFLICT DO NOTHING so a duplicate record
// fails individually without poisoning the transaction.
func (r *UserRepository) InsertBatch(ctx context.Context, users []*entity.User) ([]bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := make([]bool, len(users))
	for i, u := range users {
		u.EnsureDefaults()
		row := tx.QueryRow(ctx, `
			INSERT INTO users (
				email, password, name, legacy_roles, language_code, timezone,
				app_preferences, notification_preferences,
				profile_picture_url, cover_picture_url,
				short_bio, long_bio, interests, social_links
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (email) DO NOTHING
			RETURNING id, created_at, updated_at
		`, u.Email, u.Password, u.Name, toJSON(u.LegacyRoles), u.LanguageCode, u.Timezone,
			toJSON(u.AppPreferences), toJSON(u.NotificationPrefs),
			nullIfEmpty(u.ProfilePictureURL), nullIfEmpty(u.CoverPictureURL),
			toJSON(u.ShortBio), toJSON(u.LongBio), toJSON(u.Interests), toJSON(u.SocialLinks))

		switch err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); {
		case err == nil:
			inserted[i] = true
		case errors.Is(err, pgx.ErrNoRows):
			inserted[i] = false
		default:
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return inserted, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+column+` = $1
	`, value)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.EnsureDefaults()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, legacy_roles = $3, language_code = $4,
			timezone = $5, app_preferences = $6, notification_preferences = $7,
			profile_picture_url = $8, cover_picture_url = $9,
			short_bio = $10, long_bio = $11, interests = $12, social_links = $13,
			updated_at = $14
		WHERE id = $15
	`, u.Email, u.Name, toJSON(u.LegacyRoles), u.LanguageCode,
		u.Timezone, toJSON(u.AppPreferences), toJSON(u.NotificationPrefs),
		nullIfEmpty(u.ProfilePictureURL), nullIfEmpty(u.CoverPictureURL),
		toJSON(u.ShortBio), toJSON(u.LongBio), toJSON(u.Interests), toJSON(u.SocialLinks),
		u.UpdatedAt, u.ID)
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

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var legacyRoles, appPrefs, notifPrefs, shortBio, longBio, interests, socialLinks []byte

	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &legacyRoles,
		&u.LanguageCode, &u.Timezone, &appPrefs, &notifPrefs,
		&u.ProfilePictureURL, &u.CoverPictureURL,
		&shortBio, &longBio, &interests, &socialLinks,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	fromJSON(legacyRoles, &u.LegacyRoles)
	fromJSON(appPrefs, &u.AppPreferences)
	fromJSON(notifPrefs, &u.NotificationPrefs)
	fromJSON(shortBio, &u.ShortBio)
	fromJSON(longBio, &u.LongBio)
	fromJSON(interests, &u.Interests)
	fromJSON(socialLinks, &u.SocialLinks)
	u.EnsureDefaults()
	return u, nil
}

func toJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func fromJSON[T any](b []byte, dest *T) {
	if len(b) == 0 {
		return
	}
	_ = json.Unmarshal(b, dest)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

var _ repository.UserRepository = (*UserRepository)(nil)
