package server

import (
	"github.com/labstack/echo/v4"

	"github.com/deepsr2003/micro-telegram/internal/application/config"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres/repository"
	"github.com/deepsr2003/micro-telegram/internal/infra/ports/http/handlers"
	"github.com/deepsr2003/micro-telegram/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	authHandler *handlers.AuthHandler,
	roomHandler *handlers.RoomHandler,
	contactHandler *handlers.ContactHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()

	e.HideBanner = true

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	api := e.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		v1 := api.Group("/v1")
		v1.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, userRepo))

		admin := middleware.RoomAdminMiddleware(membershipRepo)
		{
			v1.GET("/me", authHandler.GetMe)

			v1.GET("/ws", wsHandler.Handle)

			v1.POST("/rooms", roomHandler.CreateRoom)
			v1.GET("/rooms", roomHandler.ListMyRooms)
			v1.POST("/rooms/join", roomHandler.JoinRoom)
			v1.POST("/rooms/leave", roomHandler.LeaveRoom)

			v1.PUT("/rooms/promote", roomHandler.Promote, admin)
			v1.POST("/rooms/remove", roomHandler.RemoveMember, admin)
			v1.DELETE("/rooms/message", roomHandler.DeleteMessage, admin)
			v1.POST("/rooms/approve-join", roomHandler.ApproveJoin, admin)

			v1.GET("/rooms/:roomId/messages", roomHandler.ListMessages)
			v1.GET("/rooms/:roomId/members", roomHandler.ListMembers)
			v1.DELETE("/rooms/:roomId", roomHandler.DeleteRoom, admin)

			v1.GET("/contacts", contactHandler.ListContacts)
			v1.POST("/contacts", contactHandler.SendRequest)
			v1.PUT("/contacts/respond", contactHandler.Respond)
			v1.GET("/contacts/:contactId/messages", contactHandler.ListDirectMessages)
		}
	}

	return e
}
