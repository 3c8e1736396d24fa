package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
)

type contactFixture struct {
	alice, bob models.User
	contacts   *fakeContactRepo
	uc         ContactUsecase
}

func newContactFixture() *contactFixture {
	alice := models.User{ID: uuid.New(), Username: "alice"}
	bob := models.User{ID: uuid.New(), Username: "bob"}

	contacts := newFakeContactRepo()

	return &contactFixture{
		alice:    alice,
		bob:      bob,
		contacts: contacts,
		uc:       NewContactUsecase(newFakeUserRepo(alice, bob), contacts, newFakeMessageRepo()),
	}
}

func TestContactUsecase_SendRequest(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	targetID, err := f.uc.SendRequest(context.Background(), f.alice, "bob")
	req.NoError(err)
	req.Equal(f.bob.ID, targetID)

	low, high := models.CanonicalPair(f.alice.ID, f.bob.ID)
	contact, err := f.contacts.GetContact(context.Background(), low, high)
	req.NoError(err)
	req.Equal(models.ContactPending, contact.Status)
	req.Equal(f.alice.ID, contact.ActionUserID)
}

func TestContactUsecase_SendRequest_TargetNotFound(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	_, err := f.uc.SendRequest(context.Background(), f.alice, "nobody")
	req.True(apperr.IsKind(err, apperr.NotFound))
}

func TestContactUsecase_SendRequest_Self(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	_, err := f.uc.SendRequest(context.Background(), f.alice, "alice")
	req.True(apperr.IsKind(err, apperr.SelfReference))
}

// The pair is canonical: a request in either direction addresses the same
// stored row, so the second request conflicts regardless of who sends it.
func TestContactUsecase_SendRequest_PairSymmetry(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	_, err := f.uc.SendRequest(context.Background(), f.alice, "bob")
	req.NoError(err)

	_, err = f.uc.SendRequest(context.Background(), f.bob, "alice")
	req.True(apperr.IsKind(err, apperr.Conflict))

	_, err = f.uc.SendRequest(context.Background(), f.alice, "bob")
	req.True(apperr.IsKind(err, apperr.Conflict))

	req.Len(f.contacts.contacts, 1)
}

func TestContactUsecase_Respond_Accept(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	_, err := f.uc.SendRequest(context.Background(), f.alice, "bob")
	req.NoError(err)

	sourceID, err := f.uc.Respond(context.Background(), f.bob.ID, "alice", DecisionAccept)
	req.NoError(err)
	req.Equal(f.alice.ID, sourceID)

	low, high := models.CanonicalPair(f.alice.ID, f.bob.ID)
	contact, err := f.contacts.GetContact(context.Background(), low, high)
	req.NoError(err)
	req.Equal(models.ContactAccepted, contact.Status)
	req.Equal(f.bob.ID, contact.ActionUserID)
}

// Accepting when no pending row exists leaves state unchanged.
func TestContactUsecase_Respond_AcceptNonPending(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	_, err := f.uc.Respond(context.Background(), f.bob.ID, "alice", DecisionAccept)
	req.NoError(err)
	req.Empty(f.contacts.contacts)
}

// Rejecting deletes the row unconditionally, accepted or pending.
func TestContactUsecase_Respond_Reject(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	_, err := f.uc.SendRequest(context.Background(), f.alice, "bob")
	req.NoError(err)

	_, err = f.uc.Respond(context.Background(), f.bob.ID, "alice", DecisionReject)
	req.NoError(err)
	req.Empty(f.contacts.contacts)
}

func TestContactUsecase_Respond_InvalidDecision(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	_, err := f.uc.Respond(context.Background(), f.bob.ID, "alice", "maybe")
	req.True(apperr.IsKind(err, apperr.InvalidOperation))
}

func TestContactUsecase_ListContacts(t *testing.T) {
	req := require.New(t)
	f := newContactFixture()

	_, err := f.uc.SendRequest(context.Background(), f.alice, "bob")
	req.NoError(err)

	// Bob sees a pending request where he is not the action user, which
	// marks it as awaiting his response.
	contacts, err := f.uc.ListContacts(context.Background(), f.bob.ID)
	req.NoError(err)
	req.Len(contacts, 1)
	req.Equal(f.alice.ID, contacts[0].ContactID)
	req.Equal(models.ContactPending, contacts[0].Status)
	req.NotEqual(f.bob.ID, contacts[0].ActionUserID)
}
