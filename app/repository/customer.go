package repository

import (
	"context"
	"database/sql"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
)

type CustomerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Upsert(ctx context.Context, customer *entity.Customer) error {
	metadataJSON, err := serializeMetadata(customer.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO customers (
			stripe_customer_id, email, name, metadata_json, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			email = VALUES(email),
			name = VALUES(name),
			metadata_json = VALUES(metadata_json),
			updated_at = VALUES(updated_at)
	`

	_, err = r.db.ExecContext(ctx, query,
		customer.StripeCustomerID,
		nullableStringValue(customer.Email),
		nullableStringValue(customer.Name),
		metadataJSON,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	return err
}

func (r *CustomerRepository) FindByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*entity.Customer, error) {
	query := `
		SELECT id, stripe_customer_id, email, name, metadata_json, created_at, updated_at
		FROM customers
		WHERE stripe_customer_id = ?
		LIMIT 1
	`

	customer := &entity.Customer{}
	var email sql.NullString
	var name sql.NullString
	var metadataJSON string

	err := r.db.QueryRowContext(ctx, query, stripeCustomerID).Scan(
		&customer.ID,
		&customer.StripeCustomerID,
		&email,
		&name,
		&metadataJSON,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	customer.Email = stringPtrFromNull(email)
	customer.Name = stringPtrFromNull(name)

	metadata, err := parseMetadata(metadataJSON)
	if err != nil {
		return nil, err
	}
	customer.Metadata = metadata

	return customer, nil
}
