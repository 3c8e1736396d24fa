package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *models.User) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx,
		"INSERT INTO users (id, username, password) VALUES ($1, $2, $3)",
		user.ID, user.Username, user.Password,
	)

	return err
}

func (r *userRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	var user models.User
	err := q.GetContext(ctx, &user,
		"SELECT id, username, password, created_at FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	var user models.User
	err := q.GetContext(ctx, &user,
		"SELECT id, username, password, created_at FROM users WHERE username = $1", username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}
