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

type RoomRepository interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoomByID(ctx context.Context, id string) (models.Room, error)

	// DeleteRoom removes the room row. Memberships and messages go with it
	// through the schema's ON DELETE CASCADE.
	DeleteRoom(ctx context.Context, id string) error

	ListRoomsByUserID(ctx context.Context, userID uuid.UUID) ([]models.Room, error)
}

type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) CreateRoom(ctx context.Context, room *models.Room) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx,
		"INSERT INTO rooms (id, name, creator_id) VALUES ($1, $2, $3)",
		room.ID, room.Name, room.CreatorID,
	)

	return err
}

func (r *roomRepo) GetRoomByID(ctx context.Context, id string) (models.Room, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	var room models.Room
	err := q.GetContext(ctx, &room, "SELECT * FROM rooms WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, apperr.New(apperr.NotFound, "room not found")
	}
	if err != nil {
		return models.Room{}, err
	}

	return room, nil
}

func (r *roomRepo) DeleteRoom(ctx context.Context, id string) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx, "DELETE FROM rooms WHERE id = $1", id)

	return err
}

func (r *roomRepo) ListRoomsByUserID(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	rooms := make([]models.Room, 0)
	err := q.SelectContext(ctx, &rooms,
		`SELECT r.id, r.name, r.creator_id, r.created_at FROM rooms r
		 JOIN room_members rm ON r.id = rm.room_id
		 WHERE rm.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	return rooms, nil
}
