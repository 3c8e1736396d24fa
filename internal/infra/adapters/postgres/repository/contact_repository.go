package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/deepsr2003/micro-telegram/internal/domain/apperr"
	"github.com/deepsr2003/micro-telegram/internal/domain/models"
	"github.com/deepsr2003/micro-telegram/internal/infra/adapters/postgres"
)

type ContactRepository interface {
	// GetContact looks up the canonical pair row. Returns apperr.NotFound
	// when no relationship exists in either direction.
	GetContact(ctx context.Context, low, high uuid.UUID) (models.Contact, error)

	CreateContact(ctx context.Context, contact *models.Contact) error

	// AcceptContact flips a pending row to accepted and records who
	// accepted it. A non-pending row is left unchanged (no-op).
	AcceptContact(ctx context.Context, low, high, actionUserID uuid.UUID) error

	// DeleteContact removes the pair row unconditionally.
	DeleteContact(ctx context.Context, low, high uuid.UUID) error

	ListContactsByUser(ctx context.Context, userID uuid.UUID) ([]models.ContactView, error)
}

type contactRepo struct {
	db *sqlx.DB
}

func NewContactRepo(db *sqlx.DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) GetContact(ctx context.Context, low, high uuid.UUID) (models.Contact, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	var contact models.Contact
	err := q.GetContext(ctx, &contact,
		"SELECT * FROM contacts WHERE user_low = $1 AND user_high = $2",
		low, high,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Contact{}, apperr.New(apperr.NotFound, "contact not found")
	}
	if err != nil {
		return models.Contact{}, err
	}

	return contact, nil
}

func (r *contactRepo) CreateContact(ctx context.Context, contact *models.Contact) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx,
		`INSERT INTO contacts (user_low, user_high, status, action_user_id)
		 VALUES ($1, $2, $3, $4)`,
		contact.UserLow, contact.UserHigh, contact.Status, contact.ActionUserID,
	)

	return err
}

func (r *contactRepo) AcceptContact(ctx context.Context, low, high, actionUserID uuid.UUID) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx,
		`UPDATE contacts SET status = 'accepted', action_user_id = $3
		 WHERE user_low = $1 AND user_high = $2 AND status = 'pending'`,
		low, high, actionUserID,
	)

	return err
}

func (r *contactRepo) DeleteContact(ctx context.Context, low, high uuid.UUID) error {
	q := postgres.QuerierFrom(ctx, r.db)

	_, err := q.ExecContext(ctx,
		"DELETE FROM contacts WHERE user_low = $1 AND user_high = $2",
		low, high,
	)

	return err
}

func (r *contactRepo) ListContactsByUser(ctx context.Context, userID uuid.UUID) ([]models.ContactView, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	contacts := make([]models.ContactView, 0)
	err := q.SelectContext(ctx, &contacts,
		`SELECT
		    c.status, c.action_user_id,
		    CASE WHEN c.user_low = $1 THEN u2.id ELSE u1.id END AS contact_id,
		    CASE WHEN c.user_low = $1 THEN u2.username ELSE u1.username END AS contact_username
		 FROM contacts c
		 JOIN users u1 ON c.user_low = u1.id
		 JOIN users u2 ON c.user_high = u2.id
		 WHERE c.user_low = $1 OR c.user_high = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	return contacts, nil
}
