package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/deepsr2003/micro-telegram/internal/application/config"
	"github.com/deepsr2003/micro-telegram/internal/application/constant"
	"github.com/deepsr2003/micro-telegram/internal/application/metric"
	"github.com/deepsr2003/micro-telegram/internal/domain/events"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/memory"
	"github.com/deepsr2003/micro-telegram/internal/infra/appctx"
	"github.com/deepsr2003/micro-telegram/internal/usecase"
)

// WebSocketHandler is the event channel adapter. Connection lifecycle:
// on upgrade the authenticated user is registered in the presence registry
// (superseding any previous connection); on close the connection's channel
// subscriptions and presence entry are dropped.
//
// Failed inbound events are logged and dropped: the protocol has no error
// acknowledgment back to the emitting client.
type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	presence memory.PresenceRegistry
	channels memory.RoomChannelRepository

	roomUsecase    usecase.RoomUsecase
	messageUsecase usecase.MessageUsecase
}

func NewWebSocketHandler(
	cfg *config.Config,
	presence memory.PresenceRegistry,
	channels memory.RoomChannelRepository,
	roomUsecase usecase.RoomUsecase,
	messageUsecase usecase.MessageUsecase,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		presence:       presence,
		channels:       channels,
		roomUsecase:    roomUsecase,
		messageUsecase: messageUsecase,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("WebSocket upgrade error", slog.Any(constant.Error, err))
		return err
	}
	defer ws.Close()

	connID := uuid.New()

	h.presence.Register(user.ID, connID, ws)
	metric.IncrementWSActiveConnections()

	slog.Info("WebSocket connection established",
		slog.Any(constant.UserID, user.ID),
		slog.Any(constant.ConnID, connID),
	)

	defer h.teardown(user.ID, connID)

	if err := ws.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
		return err
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			case <-c.Request().Context().Done():
				return
			}
		}
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Error("webSocket read error", slog.Any(constant.Error, err))
			}
			return nil
		}

		msg := new(events.Message)
		if err = json.Unmarshal(raw, msg); err != nil {
			slog.Error("unmarshal websocket message", slog.Any(constant.Error, err))
			continue
		}

		metric.RecordWSEvent(msg.Type)

		if err = h.handleMessage(c.Request().Context(), user, msg); err != nil {
			slog.Error("handle message",
				slog.String("type", msg.Type),
				slog.Any(constant.UserID, user.ID),
				slog.Any(constant.Error, err),
			)
		}
	}
}

// teardown releases what the connection held. Channel subscriptions are
// keyed by user, not connection, so they are only dropped when this
// connection was still the user's live one: a stale close arriving after a
// reconnect must not strip the superseding session's subscriptions.
func (h *WebSocketHandler) teardown(userID, connID uuid.UUID) {
	if h.presence.Unregister(connID) {
		h.channels.LeaveAll(userID)
	}

	metric.DecrementWSActiveConnections()

	slog.Info("WebSocket connection closed",
		slog.Any(constant.UserID, userID),
		slog.Any(constant.ConnID, connID),
	)
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, user models.User, msg *events.Message) error {
	switch msg.Type {
	case events.TypeJoinRoom:
		var ev events.JoinRoomEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal join_room: %w", err)
		}
		if ev.RoomID == "" {
			return errors.New("room_id is required")
		}

		// Channel join is not checked against persisted membership; the
		// subscription is ephemeral and revoked on disconnect.
		h.channels.Join(ev.RoomID, user.ID)

	case events.TypeSendRoomMessage:
		var ev events.SendRoomMessageEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal send_room_message: %w", err)
		}

		// Sender identity comes from the connection, never the payload.
		_, err := h.messageUsecase.PostRoomMessage(ctx, ev.RoomID, user, ev.Content, ev.ClientRef)
		if err != nil {
			return fmt.Errorf("post room message: %w", err)
		}

	case events.TypeSendDM:
		var ev events.SendDMEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal send_dm: %w", err)
		}

		_, err := h.messageUsecase.PostDirectMessage(ctx, user, ev.ReceiverID, ev.Content, ev.ClientRef)
		if err != nil {
			return fmt.Errorf("post direct message: %w", err)
		}

	case events.TypeDeleteRoomMessage:
		var ev events.DeleteRoomMessageEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal delete_room_message: %w", err)
		}

		role, err := h.roomUsecase.GetRole(ctx, ev.RoomID, user.ID)
		if err != nil || !role.Privileged() {
			return fmt.Errorf("user %s is not an admin of room %s", user.ID, ev.RoomID)
		}

		if err := h.messageUsecase.SoftDeleteRoomMessage(ctx, ev.MessageID, ev.RoomID, user.Username); err != nil {
			return fmt.Errorf("soft delete message: %w", err)
		}

	case events.TypeContactUpdate:
		var ev events.ContactUpdateEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal contact_update: %w", err)
		}

		h.messageUsecase.NotifyContactUpdate(ev.TargetUserID)

	case events.TypeRequestToJoinRoom:
		var ev events.RequestToJoinRoomEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal request_to_join_room: %w", err)
		}

		if err := h.roomUsecase.RequestToJoin(ctx, ev.RoomID, user); err != nil {
			return fmt.Errorf("request to join: %w", err)
		}

	case events.TypeRequestRoomDataRefresh:
		var ev events.RoomDataRefreshEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return fmt.Errorf("unmarshal request_room_data_refresh: %w", err)
		}

		h.messageUsecase.BroadcastRoomDataRefresh(ev.RoomID)

	case events.TypePing:
		h.presence.Write(user.ID, events.Message{Type: events.TypePong})

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	return nil
}
