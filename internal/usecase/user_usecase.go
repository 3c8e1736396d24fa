package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres/repository"
)

const tokenTTL = 72 * time.Hour

// UserUsecase определяет интерфейс для работы с пользователями
type UserUsecase interface {
	CreateUser(ctx context.Context, username, password string) (*models.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)

	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)
	GenerateJWT(user *models.User) (string, error)
}

type userUsecase struct {
	jwtSecret []byte

	userRepo repository.UserRepository
}

func NewUserUsecase(jwtSecret []byte, userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{
		jwtSecret: jwtSecret,
		userRepo:  userRepo,
	}
}

func (uc *userUsecase) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	_, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, apperr.New(apperr.Conflict, "username already exists")
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.NewUser(username, string(hashedPassword))

	if err = uc.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.Password = ""
	return user, nil
}

func (uc *userUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return uc.userRepo.GetUserByID(ctx, id)
}

func (uc *userUsecase) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	user.Password = ""
	return &user, nil
}

func (uc *userUsecase) GenerateJWT(user *models.User) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.jwtSecret)
}
