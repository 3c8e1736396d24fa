package appctx

import (
	"context"

	"github.com/deepsr2003/micro-telegram/internal/domain/models"
)

type ctxKey string

const (
	identityKey ctxKey = "identity"
	roomRoleKey ctxKey = "roomRole"
)

// WithIdentity добавляет авторизованного пользователя в контекст
func WithIdentity(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// Identity извлекает авторизованного пользователя из контекста
func Identity(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(identityKey).(models.User)
	return user, ok
}

// WithRoomRole записывает роль пользователя в комнате, установленную
// admin-middleware
func WithRoomRole(ctx context.Context, role models.Role) context.Context {
	return context.WithValue(ctx, roomRoleKey, role)
}

func RoomRole(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(roomRoleKey).(models.Role)
	return role, ok
}
