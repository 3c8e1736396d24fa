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

type MessageRepository interface {
	// InsertRoomMessage fills in the server-assigned id and timestamp.
	InsertRoomMessage(ctx context.Context, msg *models.RoomMessage) error

	ListRoomMessages(ctx context.Context, roomID string) ([]models.RoomMessage, error)

	// SoftDeleteRoomMessage marks the message deleted and replaces its
	// content with the moderation notice. The message must belong to
	// roomID: a message in another room is apperr.NotFound, same as a
	// missing one, so the acting admin's privilege stays scoped to the
	// room it was granted for. Deleting an already-deleted message fails
	// with apperr.InvalidOperation. Rows are never physically deleted.
	SoftDeleteRoomMessage(ctx context.Context, roomID string, messageID int64, notice string) error

	InsertDirectMessage(ctx context.Context, msg *models.DirectMessage) error
	ListDirectMessages(ctx context.Context, userID, contactID uuid.UUID) ([]models.DirectMessage, error)
}

type messageRepo struct {
	db *sqlx.DB
}

func NewMessageRepo(db *sqlx.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) InsertRoomMessage(ctx context.Context, msg *models.RoomMessage) error {
	q := postgres.QuerierFrom(ctx, r.db)

	err := q.GetContext(ctx, msg,
		`INSERT INTO room_messages (room_id, sender_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		msg.RoomID, msg.SenderID, msg.Content,
	)

	return err
}

func (r *messageRepo) ListRoomMessages(ctx context.Context, roomID string) ([]models.RoomMessage, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	messages := make([]models.RoomMessage, 0)
	err := q.SelectContext(ctx, &messages,
		`SELECT m.id, m.room_id, m.sender_id, u.username AS sender_username,
		        m.content, m.is_deleted, m.created_at
		 FROM room_messages m
		 JOIN users u ON m.sender_id = u.id
		 WHERE m.room_id = $1
		 ORDER BY m.created_at ASC`,
		roomID,
	)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepo) SoftDeleteRoomMessage(ctx context.Context, roomID string, messageID int64, notice string) error {
	q := postgres.QuerierFrom(ctx, r.db)

	res, err := q.ExecContext(ctx,
		`UPDATE room_messages SET is_deleted = TRUE, content = $3
		 WHERE id = $1 AND room_id = $2 AND NOT is_deleted`,
		messageID, roomID, notice,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var deleted bool
	err = q.GetContext(ctx, &deleted,
		"SELECT is_deleted FROM room_messages WHERE id = $1 AND room_id = $2",
		messageID, roomID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.NotFound, "message not found")
	}
	if err != nil {
		return err
	}

	return apperr.New(apperr.InvalidOperation, "message already deleted")
}

func (r *messageRepo) InsertDirectMessage(ctx context.Context, msg *models.DirectMessage) error {
	q := postgres.QuerierFrom(ctx, r.db)

	err := q.GetContext(ctx, msg,
		`INSERT INTO direct_messages (sender_id, receiver_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		msg.SenderID, msg.ReceiverID, msg.Content,
	)

	return err
}

func (r *messageRepo) ListDirectMessages(ctx context.Context, userID, contactID uuid.UUID) ([]models.DirectMessage, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	messages := make([]models.DirectMessage, 0)
	err := q.SelectContext(ctx, &messages,
		`SELECT m.id, m.sender_id, u.username AS sender_username,
		        m.receiver_id, m.content, m.created_at
		 FROM direct_messages m
		 JOIN users u ON m.sender_id = u.id
		 WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		    OR (m.sender_id = $2 AND m.receiver_id = $1)
		 ORDER BY m.created_at ASC`,
		userID, contactID,
	)
	if err != nil {
		return nil, err
	}

	return messages, nil
}
