// package userrepository contains the PostgreSQL implementation of the user
// store backing authentication.
package userrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/domain"
)

var _ secondary.UserPort = (*UserRepository)(nil)

type UserRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

func New(db *sqlx.DB, logger primary.Logger, schema string) *UserRepository {
	return &UserRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.Users) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s.users (id, user_name, password_hash, email, auth_provider, google_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.schema)
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.UserName, user.PasswordHash, user.Email, user.AuthProvider, user.GoogleID)
	if err != nil {
		r.logger.Error("Failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*domain.Users, error) {
	return r.getBy(ctx, "user_name", userName)
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.Users, error) {
	return r.getBy(ctx, "google_id", googleID)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*domain.Users, error) {
	query := fmt.Sprintf(`
		SELECT id, user_name, password_hash, email, auth_provider, google_id
		FROM %s.users
		WHERE %s = $1
	`, r.schema, column)

	var user domain.Users
	if err := r.db.GetContext(ctx, &user, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user", "column", column, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
