package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
)

type APIKeyRepository struct {
	db DBTX
}

func NewAPIKeyRepository(db DBTX) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *entity.APIKey) error {
	scopesJSON, err := serializeScopes(key.Scopes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO api_keys (
			user_id, api_key, name, scopes_json, is_active, expires_at, last_used_at,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		key.UserID,
		key.Key,
		key.Name,
		scopesJSON,
		key.IsActive,
		nullableTimeValue(key.ExpiresAt),
		nullableTimeValue(key.LastUsedAt),
		key.CreatedAt,
		key.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	key.ID = uint64(id)
	return nil
}

func (r *APIKeyRepository) FindActiveByKey(ctx context.Context, rawKey string) (*entity.APIKey, error) {
	query := apiKeySelect + ` WHERE api_key = ? AND is_active = TRUE LIMIT 1`
	key, err := scanAPIKey(r.db.QueryRowContext(ctx, query, rawKey))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (r *APIKeyRepository) ListByUser(ctx context.Context, userID string) ([]*entity.APIKey, error) {
	query := apiKeySelect + ` WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]*entity.APIKey, 0)
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id uint64, now time.Time) error {
	query := `UPDATE api_keys SET last_used_at = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, now, now, id)
	return err
}

const apiKeySelect = `
	SELECT id, user_id, api_key, name, scopes_json, is_active, expires_at, last_used_at,
		created_at, updated_at
	FROM api_keys
`

func scanAPIKey(scan rowScanner) (*entity.APIKey, error) {
	key := &entity.APIKey{}
	var scopesJSON string
	var expiresAt sql.NullTime
	var lastUsedAt sql.NullTime

	err := scan.Scan(
		&key.ID,
		&key.UserID,
		&key.Key,
		&key.Name,
		&scopesJSON,
		&key.IsActive,
		&expiresAt,
		&lastUsedAt,
		&key.CreatedAt,
		&key.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	key.ExpiresAt = timePtrFromNull(expiresAt)
	key.LastUsedAt = timePtrFromNull(lastUsedAt)

	scopes, err := parseScopes(scopesJSON)
	if err != nil {
		return nil, err
	}
	key.Scopes = scopes

	return key, nil
}

func serializeScopes(scopes []string) (string, error) {
	if scopes == nil {
		scopes = []string{}
	}
	payload, err := json.Marshal(scopes)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func parseScopes(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var scopes []string
	if err := json.Unmarshal([]byte(raw), &scopes); err != nil {
		return nil, err
	}
	if scopes == nil {
		scopes = []string{}
	}
	return scopes, nil
}
