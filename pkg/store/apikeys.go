package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/revaer/revaer/pkg/types"
)

// GetApiKey looks up a single API key by id.
func (q *Queries) GetApiKey(ctx context.Context, keyID string) (*types.ApiKey, error) {
	row := q.q.QueryRow(ctx, `
		SELECT key_id, hashed_secret, label, enabled, expires_at, rate_limit, created_at
		FROM api_keys WHERE key_id = $1`, keyID)
	return scanApiKey(row)
}

func scanApiKey(row interface{ Scan(dest ...any) error }) (*types.ApiKey, error) {
	var k types.ApiKey
	var rateLimit []byte
	if err := row.Scan(&k.KeyID, &k.HashedSecret, &k.Label, &k.Enabled, &k.ExpiresAt, &rateLimit, &k.CreatedAt); err != nil {
		return nil, wrapDB("get_api_key", err)
	}
	if len(rateLimit) > 0 {
		var rl types.RateLimit
		if err := json.Unmarshal(rateLimit, &rl); err != nil {
			return nil, wrapDB("get_api_key.rate_limit", err)
		}
		k.RateLimit = &rl
	}
	return &k, nil
}

// ListApiKeys returns every stored API key.
func (q *Queries) ListApiKeys(ctx context.Context) ([]types.ApiKey, error) {
	rows, err := q.q.Query(ctx, `
		SELECT key_id, hashed_secret, label, enabled, expires_at, rate_limit, created_at
		FROM api_keys ORDER BY created_at`)
	if err != nil {
		return nil, wrapDB("list_api_keys", err)
	}
	defer rows.Close()

	var out []types.ApiKey
	for rows.Next() {
		k, err := scanApiKey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *k)
	}
	return out, wrapDB("list_api_keys.rows", rows.Err())
}

// HasApiKeys reports whether any API key row exists at all, used by the
// facade to decide whether setup completion in anonymous mode still
// needs to mint a first key.
func (q *Queries) HasApiKeys(ctx context.Context) (bool, error) {
	var exists bool
	err := q.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM api_keys)`).Scan(&exists)
	return exists, wrapDB("has_api_keys", err)
}

// InsertApiKey creates a new API key row with an already-hashed secret.
func (q *Queries) InsertApiKey(ctx context.Context, k *types.ApiKey) error {
	var rateLimit []byte
	var err error
	if k.RateLimit != nil {
		rateLimit, err = json.Marshal(k.RateLimit)
		if err != nil {
			return wrapDB("insert_api_key.rate_limit", err)
		}
	}
	_, err = q.q.Exec(ctx, `
		INSERT INTO api_keys (key_id, hashed_secret, label, enabled, expires_at, rate_limit)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		k.KeyID, k.HashedSecret, k.Label, k.Enabled, k.ExpiresAt, rateLimit)
	return wrapDB("insert_api_key", err)
}

// UpdateApiKey overwrites an existing key's mutable fields (label,
// enabled, rate limit). It does not touch HashedSecret or ExpiresAt —
// those go through RotateApiKeySecret and RefreshApiKeyExpiry
// respectively, each a narrower, independently callable operation.
func (q *Queries) UpdateApiKey(ctx context.Context, k *types.ApiKey) error {
	var rateLimit []byte
	var err error
	if k.RateLimit != nil {
		rateLimit, err = json.Marshal(k.RateLimit)
		if err != nil {
			return wrapDB("update_api_key.rate_limit", err)
		}
	}
	_, err = q.q.Exec(ctx, `
		UPDATE api_keys SET label = $2, enabled = $3, rate_limit = $4
		WHERE key_id = $1`, k.KeyID, k.Label, k.Enabled, rateLimit)
	return wrapDB("update_api_key", err)
}

// RefreshApiKeyExpiry extends an existing key's ExpiresAt only, per
// spec §4.5's refresh contract (an Upsert patch that sets only
// expires_at).
func (q *Queries) RefreshApiKeyExpiry(ctx context.Context, keyID string, expiresAt time.Time) error {
	_, err := q.q.Exec(ctx, `UPDATE api_keys SET expires_at = $2 WHERE key_id = $1`, keyID, expiresAt)
	return wrapDB("refresh_api_key_expiry", err)
}

// RotateApiKeySecret overwrites an existing key's hashed secret only,
// independent of label/enabled/rate_limit/expires_at.
func (q *Queries) RotateApiKeySecret(ctx context.Context, keyID, hashedSecret string) error {
	_, err := q.q.Exec(ctx, `UPDATE api_keys SET hashed_secret = $2 WHERE key_id = $1`, keyID, hashedSecret)
	return wrapDB("rotate_api_key_secret", err)
}

// DeleteApiKey removes an API key row.
func (q *Queries) DeleteApiKey(ctx context.Context, keyID string) error {
	_, err := q.q.Exec(ctx, `DELETE FROM api_keys WHERE key_id = $1`, keyID)
	return wrapDB("delete_api_key", err)
}
