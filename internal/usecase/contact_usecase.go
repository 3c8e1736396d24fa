package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres/repository"
)

const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// ContactUsecase is the pairwise relationship engine over canonical user
// pairs.
type ContactUsecase interface {
	// SendRequest creates a pending relationship towards targetUsername
	// and returns the resolved target id so the caller can notify them.
	SendRequest(ctx context.Context, actingUser models.User, targetUsername string) (uuid.UUID, error)

	// Respond accepts or rejects a pending request from sourceUsername.
	// Accepting a non-pending pair is a no-op; rejecting deletes the row
	// unconditionally. Returns the resolved source id.
	Respond(ctx context.Context, actingUserID uuid.UUID, sourceUsername, decision string) (uuid.UUID, error)

	ListContacts(ctx context.Context, userID uuid.UUID) ([]models.ContactView, error)
	ListDirectMessages(ctx context.Context, userID, contactID uuid.UUID) ([]models.DirectMessage, error)
}

type contactUsecase struct {
	userRepo    repository.UserRepository
	contactRepo repository.ContactRepository
	messageRepo repository.MessageRepository
}

func NewContactUsecase(
	userRepo repository.UserRepository,
	contactRepo repository.ContactRepository,
	messageRepo repository.MessageRepository,
) ContactUsecase {
	return &contactUsecase{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		messageRepo: messageRepo,
	}
}

func (uc *contactUsecase) SendRequest(ctx context.Context, actingUser models.User, targetUsername string) (uuid.UUID, error) {
	target, err := uc.userRepo.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return uuid.Nil, err
	}

	if target.ID == actingUser.ID {
		return uuid.Nil, apperr.New(apperr.SelfReference, "you can't add yourself as a contact")
	}

	low, high := models.CanonicalPair(actingUser.ID, target.ID)

	_, err = uc.contactRepo.GetContact(ctx, low, high)
	if err == nil {
		return uuid.Nil, apperr.New(apperr.Conflict, "a pending request or an existing contact already exists")
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return uuid.Nil, fmt.Errorf("check existing contact: %w", err)
	}

	contact := &models.Contact{
		UserLow:      low,
		UserHigh:     high,
		Status:       models.ContactPending,
		ActionUserID: actingUser.ID,
	}

	if err := uc.contactRepo.CreateContact(ctx, contact); err != nil {
		return uuid.Nil, fmt.Errorf("create contact: %w", err)
	}

	return target.ID, nil
}

func (uc *contactUsecase) Respond(ctx context.Context, actingUserID uuid.UUID, sourceUsername, decision string) (uuid.UUID, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return uuid.Nil, apperr.New(apperr.InvalidOperation, "response must be 'accept' or 'reject'")
	}

	source, err := uc.userRepo.GetUserByUsername(ctx, sourceUsername)
	if err != nil {
		return uuid.Nil, err
	}

	low, high := models.CanonicalPair(actingUserID, source.ID)

	if decision == DecisionAccept {
		if err := uc.contactRepo.AcceptContact(ctx, low, high, actingUserID); err != nil {
			return uuid.Nil, fmt.Errorf("accept contact: %w", err)
		}
	} else {
		if err := uc.contactRepo.DeleteContact(ctx, low, high); err != nil {
			return uuid.Nil, fmt.Errorf("reject contact: %w", err)
		}
	}

	return source.ID, nil
}

func (uc *contactUsecase) ListContacts(ctx context.Context, userID uuid.UUID) ([]models.ContactView, error) {
	return uc.contactRepo.ListContactsByUser(ctx, userID)
}

func (uc *contactUsecase) ListDirectMessages(ctx context.Context, userID, contactID uuid.UUID) ([]models.DirectMessage, error) {
	return uc.messageRepo.ListDirectMessages(ctx, userID, contactID)
}
