package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepsr2003/micro-telegram/internal/infra/appctx"
	"github.com/deepsr2003/micro-telegram/internal/infra/ports/http/dto"
	"github.com/deepsr2003/micro-telegram/internal/usecase"
)

type RoomHandler struct {
	roomUsecase    usecase.RoomUsecase
	messageUsecase usecase.MessageUsecase
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase, messageUsecase usecase.MessageUsecase) *RoomHandler {
	return &RoomHandler{
		roomUsecase:    roomUsecase,
		messageUsecase: messageUsecase,
	}
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req dto.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.ID == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "room id and name are required"})
	}

	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	room, err := h.roomUsecase.CreateRoom(c.Request().Context(), req.ID, req.Name, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) ListMyRooms(c echo.Context) error {
	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	rooms, err := h.roomUsecase.ListUserRooms(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, rooms)
}

// JoinRoom validates the request and fans out a join notification to
// present admins. Membership is only granted later via ApproveJoin.
func (h *RoomHandler) JoinRoom(c echo.Context) error {
	var req dto.JoinRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	if err := h.roomUsecase.RequestToJoin(c.Request().Context(), req.RoomID, user); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "join request sent"})
}

func (h *RoomHandler) LeaveRoom(c echo.Context) error {
	var req dto.LeaveRoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	if err := h.roomUsecase.Leave(c.Request().Context(), req.RoomID, user.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "you have left the room"})
}

func (h *RoomHandler) Promote(c echo.Context) error {
	var req dto.PromoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	if err := h.roomUsecase.Promote(c.Request().Context(), req.RoomID, req.TargetUserID, user.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "user promoted to admin"})
}

func (h *RoomHandler) RemoveMember(c echo.Context) error {
	var req dto.RemoveMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := h.roomUsecase.RemoveMember(c.Request().Context(), req.RoomID, req.TargetUserID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "user removed from room"})
}

func (h *RoomHandler) ApproveJoin(c echo.Context) error {
	var req dto.ApproveJoinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if err := h.roomUsecase.ApproveJoin(c.Request().Context(), req.RoomID, req.TargetUserID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "user added to room"})
}

func (h *RoomHandler) DeleteMessage(c echo.Context) error {
	var req dto.DeleteMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	err := h.messageUsecase.SoftDeleteRoomMessage(c.Request().Context(), req.MessageID, req.RoomID, user.Username)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "message deleted"})
}

func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	roomID := c.Param("roomId")

	role, ok := appctx.RoomRole(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "room role not resolved"})
	}

	if err := h.roomUsecase.DeleteRoom(c.Request().Context(), roomID, role); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "room deleted"})
}

func (h *RoomHandler) ListMessages(c echo.Context) error {
	messages, err := h.messageUsecase.ListRoomMessages(c.Request().Context(), c.Param("roomId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messages)
}

func (h *RoomHandler) ListMembers(c echo.Context) error {
	members, err := h.roomUsecase.ListMembers(c.Request().Context(), c.Param("roomId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, members)
}
