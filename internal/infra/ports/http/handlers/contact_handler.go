package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/deepsr2003/micro-telegram/internal/infra/appctx"
	"github.com/deepsr2003/micro-telegram/internal/infra/ports/http/dto"
	"github.com/deepsr2003/micro-telegram/internal/usecase"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
	messageUsecase usecase.MessageUsecase
}

func NewContactHandler(contactUsecase usecase.ContactUsecase, messageUsecase usecase.MessageUsecase) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		messageUsecase: messageUsecase,
	}
}

func (h *ContactHandler) ListContacts(c echo.Context) error {
	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	contacts, err := h.contactUsecase.ListContacts(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) SendRequest(c echo.Context) error {
	var req dto.SendContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	targetID, err := h.contactUsecase.SendRequest(c.Request().Context(), user, req.TargetUsername)
	if err != nil {
		return respondError(c, err)
	}

	// Poke the target's live connection so their pending list updates
	// without a reload.
	h.messageUsecase.NotifyContactUpdate(targetID)

	return c.JSON(http.StatusCreated, map[string]string{"message": "contact request sent"})
}

func (h *ContactHandler) Respond(c echo.Context) error {
	var req dto.RespondContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	sourceID, err := h.contactUsecase.Respond(c.Request().Context(), user.ID, req.SourceUsername, req.Response)
	if err != nil {
		return respondError(c, err)
	}

	h.messageUsecase.NotifyContactUpdate(sourceID)

	return c.JSON(http.StatusOK, map[string]string{"message": "request " + req.Response + "ed"})
}

func (h *ContactHandler) ListDirectMessages(c echo.Context) error {
	contactID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid contact id"})
	}

	user, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	messages, err := h.contactUsecase.ListDirectMessages(c.Request().Context(), user.ID, contactID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, messages)
}
