package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
)

var ErrSessionAlreadyExists = errors.New("checkout session already exists")

type CheckoutSessionRepository struct {
	db DBTX
}

func NewCheckoutSessionRepository(db DBTX) *CheckoutSessionRepository {
	return &CheckoutSessionRepository{db: db}
}

func (r *CheckoutSessionRepository) Create(ctx context.Context, session *entity.CheckoutSession) error {
	metadataJSON, err := serializeMetadata(session.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO checkout_sessions (
			session_id, price_id, customer_email, status, amount_total, currency,
			payment_status, stripe_customer_id, metadata_json, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		session.SessionID,
		session.PriceID,
		nullableStringValue(session.CustomerEmail),
		session.Status,
		nullableInt64Value(session.AmountTotal),
		nullableStringValue(session.Currency),
		nullableStringValue(session.PaymentStatus),
		nullableStringValue(session.StripeCustomerID),
		metadataJSON,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSessionAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	session.ID = uint64(id)
	return nil
}

// UpsertCompleted records the terminal state of a session, creating the row
// if the provisional insert never happened. Re-applying the same event is a
// no-op update to identical values.
func (r *CheckoutSessionRepository) UpsertCompleted(ctx context.Context, session *entity.CheckoutSession) error {
	metadataJSON, err := serializeMetadata(session.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO checkout_sessions (
			session_id, price_id, customer_email, status, amount_total, currency,
			payment_status, stripe_customer_id, metadata_json, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			amount_total = VALUES(amount_total),
			currency = VALUES(currency),
			payment_status = VALUES(payment_status),
			stripe_customer_id = VALUES(stripe_customer_id),
			customer_email = COALESCE(VALUES(customer_email), customer_email),
			updated_at = VALUES(updated_at)
	`

	_, err = r.db.ExecContext(ctx, query,
		session.SessionID,
		session.PriceID,
		nullableStringValue(session.CustomerEmail),
		session.Status,
		nullableInt64Value(session.AmountTotal),
		nullableStringValue(session.Currency),
		nullableStringValue(session.PaymentStatus),
		nullableStringValue(session.StripeCustomerID),
		metadataJSON,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

func (r *CheckoutSessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.CheckoutSession, error) {
	query := `
		SELECT id, session_id, price_id, customer_email, status, amount_total, currency,
			payment_status, stripe_customer_id, metadata_json, created_at, updated_at
		FROM checkout_sessions
		WHERE session_id = ?
		LIMIT 1
	`

	session := &entity.CheckoutSession{}
	var customerEmail sql.NullString
	var amountTotal sql.NullInt64
	var currency sql.NullString
	var paymentStatus sql.NullString
	var stripeCustomerID sql.NullString
	var metadataJSON string

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.SessionID,
		&session.PriceID,
		&customerEmail,
		&session.Status,
		&amountTotal,
		&currency,
		&paymentStatus,
		&stripeCustomerID,
		&metadataJSON,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session.CustomerEmail = stringPtrFromNull(customerEmail)
	session.AmountTotal = int64PtrFromNull(amountTotal)
	session.Currency = stringPtrFromNull(currency)
	session.PaymentStatus = stringPtrFromNull(paymentStatus)
	session.StripeCustomerID = stringPtrFromNull(stripeCustomerID)

	metadata, err := parseMetadata(metadataJSON)
	if err != nil {
		return nil, err
	}
	session.Metadata = metadata

	return session, nil
}
