package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deepsr2003/micro-telegram/internal/infra/appctx"
	"github.com/deepsr2003/micro-telegram/internal/infra/ports/http/dto"
	"github.com/deepsr2003/micro-telegram/internal/usecase"
)

type AuthHandler struct {
	userUsecase usecase.UserUsecase
}

func NewAuthHandler(userUsecase usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{userUsecase: userUsecase}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username and password are required"})
	}

	user, err := h.userUsecase.CreateUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.userUsecase.GenerateJWT(user)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookie(c, token)

	return c.JSON(http.StatusCreated, dto.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := h.userUsecase.ValidateCredentials(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.userUsecase.GenerateJWT(user)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookie(c, token)

	return c.JSON(http.StatusOK, dto.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    token,
	})
}

func (h *AuthHandler) GetMe(c echo.Context) error {
	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	return c.JSON(http.StatusOK, dto.GetMeResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(time.Hour * 72),
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
	})
}
