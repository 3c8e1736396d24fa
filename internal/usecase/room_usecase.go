package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deepsr2003/micro-telegram/internal/application/constant"
	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
	"github.com/deepsr2003/micro-telegram/internal/domain/events"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/memory"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres/repository"
)

// RoomUsecase is the room membership and role engine. Role invariants it
// holds: exactly one creator per room, at most models.MaxAdmins admins, and
// a room never loses its last privileged member except through deletion.
type RoomUsecase interface {
	CreateRoom(ctx context.Context, id, name string, creatorID uuid.UUID) (*models.Room, error)

	// RequestToJoin validates the request and fans a transient join
	// notification out to every currently-present privileged member. No
	// storage write happens; if no admin is present the request is lost.
	RequestToJoin(ctx context.Context, roomID string, requestor models.User) error

	// ApproveJoin inserts a member row. It does not verify that a join
	// request was actually sent: an admin may add any user speculatively.
	ApproveJoin(ctx context.Context, roomID string, targetUserID uuid.UUID) error

	Promote(ctx context.Context, roomID string, targetUserID, actingUserID uuid.UUID) error
	RemoveMember(ctx context.Context, roomID string, targetUserID uuid.UUID) error
	Leave(ctx context.Context, roomID string, userID uuid.UUID) error
	DeleteRoom(ctx context.Context, roomID string, actingRole models.Role) error

	GetRole(ctx context.Context, roomID string, userID uuid.UUID) (models.Role, error)
	ListUserRooms(ctx context.Context, userID uuid.UUID) ([]models.Room, error)
	ListMembers(ctx context.Context, roomID string) ([]models.Member, error)
}

type roomUsecase struct {
	tx postgres.Transactor

	roomRepo       repository.RoomRepository
	membershipRepo repository.MembershipRepository

	presence memory.PresenceRegistry
}

func NewRoomUsecase(
	tx postgres.Transactor,
	roomRepo repository.RoomRepository,
	membershipRepo repository.MembershipRepository,
	presence memory.PresenceRegistry,
) RoomUsecase {
	return &roomUsecase{
		tx:             tx,
		roomRepo:       roomRepo,
		membershipRepo: membershipRepo,
		presence:       presence,
	}
}

// CreateRoom inserts the room and its creator membership as a single
// transaction so a room with zero privileged members is never observable.
func (uc *roomUsecase) CreateRoom(ctx context.Context, id, name string, creatorID uuid.UUID) (*models.Room, error) {
	room := &models.Room{ID: id, Name: name, CreatorID: creatorID}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := uc.roomRepo.GetRoomByID(ctx, id)
		if err == nil {
			return apperr.New(apperr.Conflict, "room id already exists")
		}
		if !apperr.IsKind(err, apperr.NotFound) {
			return fmt.Errorf("check room id: %w", err)
		}

		if err := uc.roomRepo.CreateRoom(ctx, room); err != nil {
			return fmt.Errorf("create room: %w", err)
		}

		if err := uc.membershipRepo.AddMember(ctx, id, creatorID, models.RoleCreator); err != nil {
			return fmt.Errorf("seed creator membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

func (uc *roomUsecase) RequestToJoin(ctx context.Context, roomID string, requestor models.User) error {
	if _, err := uc.roomRepo.GetRoomByID(ctx, roomID); err != nil {
		return err
	}

	_, err := uc.membershipRepo.GetRole(ctx, roomID, requestor.ID)
	if err == nil {
		return apperr.New(apperr.Conflict, "already a member of this room")
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return fmt.Errorf("check membership: %w", err)
	}

	admins, err := uc.membershipRepo.ListPrivilegedUserIDs(ctx, roomID)
	if err != nil {
		return fmt.Errorf("list privileged members: %w", err)
	}

	msg, err := events.Outbound(events.TypeAdminNotification, events.AdminNotificationEvent{
		RoomID:            roomID,
		RequestorID:       requestor.ID,
		RequestorUsername: requestor.Username,
		Type:              events.NotificationJoinRequest,
	})
	if err != nil {
		return err
	}

	delivered := 0
	for _, adminID := range admins {
		if uc.presence.Write(adminID, msg) {
			delivered++
		}
	}

	if delivered == 0 {
		// Best-effort delivery: no durable queue, the request is gone.
		slog.Info("join request dropped, no admin online",
			slog.String(constant.RoomID, roomID),
			slog.Any(constant.UserID, requestor.ID),
		)
	}

	return nil
}

func (uc *roomUsecase) ApproveJoin(ctx context.Context, roomID string, targetUserID uuid.UUID) error {
	return uc.membershipRepo.AddMember(ctx, roomID, targetUserID, models.RoleMember)
}

func (uc *roomUsecase) Promote(ctx context.Context, roomID string, targetUserID, actingUserID uuid.UUID) error {
	if actingUserID == targetUserID {
		return apperr.New(apperr.InvalidOperation, "cannot promote yourself")
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		role, err := uc.membershipRepo.GetRole(ctx, roomID, targetUserID)
		if apperr.IsKind(err, apperr.NotFound) {
			return apperr.New(apperr.InvalidOperation, "can only promote members")
		}
		if err != nil {
			return fmt.Errorf("get target role: %w", err)
		}
		if role != models.RoleMember {
			return apperr.New(apperr.InvalidOperation, "can only promote members")
		}

		admins, err := uc.membershipRepo.CountAdmins(ctx, roomID)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if admins >= models.MaxAdmins {
			return apperr.New(apperr.LimitExceeded, "maximum number of admins reached (%d)", models.MaxAdmins)
		}

		return uc.membershipRepo.SetRole(ctx, roomID, targetUserID, models.RoleAdmin)
	})
}

func (uc *roomUsecase) RemoveMember(ctx context.Context, roomID string, targetUserID uuid.UUID) error {
	role, err := uc.membershipRepo.GetRole(ctx, roomID, targetUserID)
	if err != nil {
		return err
	}

	if role.Privileged() {
		return apperr.New(apperr.Forbidden, "admins and the creator cannot be removed")
	}

	return uc.membershipRepo.DeleteMember(ctx, roomID, targetUserID)
}

// Leave enforces the last-admin rule: the final privileged member cannot
// leave voluntarily. The check and the delete run in one transaction so a
// concurrent leave never strands the room without governance.
func (uc *roomUsecase) Leave(ctx context.Context, roomID string, userID uuid.UUID) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		role, err := uc.membershipRepo.GetRole(ctx, roomID, userID)
		if err != nil {
			return err
		}

		if role.Privileged() {
			privileged, err := uc.membershipRepo.CountPrivileged(ctx, roomID)
			if err != nil {
				return fmt.Errorf("count privileged members: %w", err)
			}
			if privileged <= 1 {
				return apperr.New(apperr.LastAdmin,
					"you are the last admin: promote another user or delete the room")
			}
		}

		return uc.membershipRepo.DeleteMember(ctx, roomID, userID)
	})
}

func (uc *roomUsecase) DeleteRoom(ctx context.Context, roomID string, actingRole models.Role) error {
	if actingRole != models.RoleCreator {
		return apperr.New(apperr.Forbidden, "only the room creator can delete the room")
	}

	// Memberships and messages are removed by the schema cascade.
	return uc.roomRepo.DeleteRoom(ctx, roomID)
}

func (uc *roomUsecase) GetRole(ctx context.Context, roomID string, userID uuid.UUID) (models.Role, error) {
	return uc.membershipRepo.GetRole(ctx, roomID, userID)
}

func (uc *roomUsecase) ListUserRooms(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	return uc.roomRepo.ListRoomsByUserID(ctx, userID)
}

func (uc *roomUsecase) ListMembers(ctx context.Context, roomID string) ([]models.Member, error) {
	return uc.membershipRepo.ListMembers(ctx, roomID)
}
