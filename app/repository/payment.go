package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
)

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Upsert replaces the payment state keyed by payment intent id. The gateway
// resends full state on every delivery, so last write wins on all fields
// except order_id, which is kept once resolved.
func (r *PaymentRepository) Upsert(ctx context.Context, payment *entity.Payment) error {
	metadataJSON, err := serializeMetadata(payment.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payments (
			stripe_payment_intent_id, order_id, amount, currency, status,
			receipt_email, failure_reason, metadata_json, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			order_id = COALESCE(VALUES(order_id), order_id),
			amount = VALUES(amount),
			currency = VALUES(currency),
			status = VALUES(status),
			receipt_email = VALUES(receipt_email),
			failure_reason = VALUES(failure_reason),
			metadata_json = VALUES(metadata_json),
			updated_at = VALUES(updated_at)
	`

	_, err = r.db.ExecContext(ctx, query,
		payment.StripePaymentIntentID,
		nullableUint64Value(payment.OrderID),
		payment.Amount,
		payment.Currency,
		payment.Status,
		nullableStringValue(payment.ReceiptEmail),
		nullableStringValue(payment.FailureReason),
		metadataJSON,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	return err
}

func (r *PaymentRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Payment, error) {
	query := paymentSelect + ` WHERE stripe_payment_intent_id = ? LIMIT 1`
	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, paymentIntentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *PaymentRepository) ListByReceiptEmail(ctx context.Context, email string, limit, offset int32) ([]*entity.Payment, error) {
	query := paymentSelect
	args := make([]interface{}, 0, 3)
	if strings.TrimSpace(email) != "" {
		query += ` WHERE receipt_email = ?`
		args = append(args, email)
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*entity.Payment, 0)
	for rows.Next() {
		item, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}

const paymentSelect = `
	SELECT id, stripe_payment_intent_id, order_id, amount, currency, status,
		receipt_email, failure_reason, metadata_json, created_at, updated_at
	FROM payments
`

func scanPayment(scan rowScanner) (*entity.Payment, error) {
	payment := &entity.Payment{}
	var orderID sql.NullInt64
	var receiptEmail sql.NullString
	var failureReason sql.NullString
	var metadataJSON string

	err := scan.Scan(
		&payment.ID,
		&payment.StripePaymentIntentID,
		&orderID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&receiptEmail,
		&failureReason,
		&metadataJSON,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.OrderID = uint64PtrFromNull(orderID)
	payment.ReceiptEmail = stringPtrFromNull(receiptEmail)
	payment.FailureReason = stringPtrFromNull(failureReason)

	metadata, err := parseMetadata(metadataJSON)
	if err != nil {
		return nil, err
	}
	payment.Metadata = metadata

	return payment, nil
}
