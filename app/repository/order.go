package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
)

var ErrOrderAlreadyExists = errors.New("order already exists for session")

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order for a completed session. The unique key on
// stripe_session_id is the idempotency mechanism for redelivered events.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	metadataJSON, err := serializeMetadata(order.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			stripe_session_id, stripe_payment_intent_id, stripe_customer_id, customer_email,
			amount_total, currency, status, metadata_json, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		order.StripeSessionID,
		nullableStringValue(order.StripePaymentIntentID),
		nullableStringValue(order.StripeCustomerID),
		nullableStringValue(order.CustomerEmail),
		order.AmountTotal,
		order.Currency,
		order.Status,
		metadataJSON,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrOrderAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	order.ID = uint64(id)
	return nil
}

func (r *OrderRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Order, error) {
	query := orderSelect + ` WHERE stripe_session_id = ? LIMIT 1`
	return r.findOne(ctx, query, sessionID)
}

func (r *OrderRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Order, error) {
	query := orderSelect + ` WHERE stripe_payment_intent_id = ? LIMIT 1`
	return r.findOne(ctx, query, paymentIntentID)
}

func (r *OrderRepository) ListByCustomerEmail(ctx context.Context, email string, limit, offset int32) ([]*entity.Order, error) {
	query := orderSelect
	args := make([]interface{}, 0, 3)
	if strings.TrimSpace(email) != "" {
		query += ` WHERE customer_email = ?`
		args = append(args, email)
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		item, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

const orderSelect = `
	SELECT id, stripe_session_id, stripe_payment_intent_id, stripe_customer_id, customer_email,
		amount_total, currency, status, metadata_json, created_at, updated_at
	FROM orders
`

func (r *OrderRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(scan rowScanner) (*entity.Order, error) {
	order := &entity.Order{}
	var paymentIntentID sql.NullString
	var stripeCustomerID sql.NullString
	var customerEmail sql.NullString
	var metadataJSON string

	err := scan.Scan(
		&order.ID,
		&order.StripeSessionID,
		&paymentIntentID,
		&stripeCustomerID,
		&customerEmail,
		&order.AmountTotal,
		&order.Currency,
		&order.Status,
		&metadataJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.StripePaymentIntentID = stringPtrFromNull(paymentIntentID)
	order.StripeCustomerID = stringPtrFromNull(stripeCustomerID)
	order.CustomerEmail = stringPtrFromNull(customerEmail)

	metadata, err := parseMetadata(metadataJSON)
	if err != nil {
		return nil, err
	}
	order.Metadata = metadata

	return order, nil
}
