package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres/repository"
	"github.com/deepsr2003/micro-telegram/internal/infra/appctx"
)

// RoomAdminMiddleware gates moderation endpoints: the caller must already
// hold an admin or creator membership in the addressed room. The resolved
// role is stored in the request context for handlers that distinguish
// creator-only operations.
//
// The room id comes from the :roomId path param or the request body's
// room_id field; the body is restored for downstream binding.
func RoomAdminMiddleware(membershipRepo repository.MembershipRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := appctx.Identity(c.Request().Context())
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
			}

			roomID := c.Param("roomId")
			if roomID == "" {
				roomID = roomIDFromBody(c)
			}
			if roomID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "room id is required"})
			}

			role, err := membershipRepo.GetRole(c.Request().Context(), roomID, user.ID)
			if err != nil || !role.Privileged() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "user is not an admin of this room"})
			}

			c.SetRequest(
				c.Request().WithContext(
					appctx.WithRoomRole(c.Request().Context(), role),
				),
			)

			return next(c)
		}
	}
}

func roomIDFromBody(c echo.Context) string {
	var body struct {
		RoomID string `json:"room_id"`
	}

	raw, err := readBody(c)
	if err != nil {
		return ""
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	return body.RoomID
}
