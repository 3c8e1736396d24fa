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

type MembershipRepository interface {
	AddMember(ctx context.Context, roomID string, userID uuid.UUID, role models.Role) error

	// GetRole returns apperr.NotFound when no membership row exists.
	GetRole(ctx context.Context, roomID string, userID uuid.UUID) (models.Role, error)

	SetRole(ctx context.Context, roomID string, userID uuid.UUID, role models.Role) error
	DeleteMember(ctx context.Context, roomID string, userID uuid.UUID) error

	CountAdmins(ctx context.Context, roomID string) (int, error)

	// CountPrivileged counts members whose role is creator or admin.
	CountPrivileged(ctx context.Context, roomID string) (int, error)

	ListMembers(ctx context.Context, roomID string) ([]models.Member, error)
	ListPrivilegedUserIDs(ctx context.Context, roomID string) ([]uuid.UUID, error)
}

type membershipRepo struct {
	db *sqlx.DB
}

func NewMembershipRepo(db *sqlx.DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) AddMember(ctx context.Context, roomID string, userID uuid.UUID, role models.Role) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx,
		"INSERT INTO room_members (room_id, user_id, role) VALUES ($1, $2, $3)",
		roomID, userID, role,
	)

	return err
}

func (r *membershipRepo) GetRole(ctx context.Context, roomID string, userID uuid.UUID) (models.Role, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	var role models.Role
	err := q.GetContext(ctx, &role,
		"SELECT role FROM room_members WHERE room_id = $1 AND user_id = $2",
		roomID, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.New(apperr.NotFound, "membership not found")
	}
	if err != nil {
		return "", err
	}

	return role, nil
}

func (r *membershipRepo) SetRole(ctx context.Context, roomID string, userID uuid.UUID, role models.Role) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx,
		"UPDATE room_members SET role = $3 WHERE room_id = $1 AND user_id = $2",
		roomID, userID, role,
	)

	return err
}

func (r *membershipRepo) DeleteMember(ctx context.Context, roomID string, userID uuid.UUID) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx,
		"DELETE FROM room_members WHERE room_id = $1 AND user_id = $2",
		roomID, userID,
	)

	return err
}

func (r *membershipRepo) CountAdmins(ctx context.Context, roomID string) (int, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	var count int
	err := q.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM room_members WHERE room_id = $1 AND role = 'admin'",
		roomID,
	)

	return count, err
}

func (r *membershipRepo) CountPrivileged(ctx context.Context, roomID string) (int, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	var count int
	err := q.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM room_members WHERE room_id = $1 AND role IN ('admin', 'creator')",
		roomID,
	)

	return count, err
}

func (r *membershipRepo) ListMembers(ctx context.Context, roomID string) ([]models.Member, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	members := make([]models.Member, 0)
	err := q.SelectContext(ctx, &members,
		`SELECT u.id, u.username, rm.role FROM room_members rm
		 JOIN users u ON rm.user_id = u.id
		 WHERE rm.room_id = $1`,
		roomID,
	)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *membershipRepo) ListPrivilegedUserIDs(ctx context.Context, roomID string) ([]uuid.UUID, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	ids := make([]uuid.UUID, 0)
	err := q.SelectContext(ctx, &ids,
		"SELECT user_id FROM room_members WHERE room_id = $1 AND role IN ('creator', 'admin')",
		roomID,
	)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
