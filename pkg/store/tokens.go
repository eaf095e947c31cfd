package store

import (
	"context"
	"time"

	"github.com/revaer/revaer/pkg/types"
)

// InvalidateActiveSetupTokens marks every unconsumed, unexpired setup
// token as consumed without recording a legitimate consumption, so a
// freshly issued token is the only active one (spec §3's "issuing a new
// one invalidates prior actives").
func (q *Queries) InvalidateActiveSetupTokens(ctx context.Context, now time.Time) error {
	_, err := q.q.Exec(ctx, `
		UPDATE setup_tokens SET consumed = true
		WHERE consumed = false AND expires_at > $1`, now)
	return wrapDB("invalidate_active_setup_tokens", err)
}

// InsertSetupToken creates a new setup token row with an already-hashed
// secret.
func (q *Queries) InsertSetupToken(ctx context.Context, t *types.SetupToken) error {
	_, err := q.q.Exec(ctx, `
		INSERT INTO setup_tokens (id, hashed_token, expires_at, issued_by, consumed)
		VALUES ($1, $2, $3, $4, false)`, t.ID, t.HashedToken, t.ExpiresAt, t.IssuedBy)
	return wrapDB("insert_setup_token", err)
}

// GetActiveSetupToken returns the single unconsumed, unexpired setup
// token, if any.
func (q *Queries) GetActiveSetupToken(ctx context.Context, now time.Time) (*types.SetupToken, error) {
	row := q.q.QueryRow(ctx, `
		SELECT id, hashed_token, expires_at, issued_by, consumed, created_at
		FROM setup_tokens WHERE consumed = false AND expires_at > $1
		ORDER BY created_at DESC LIMIT 1`, now)

	var t types.SetupToken
	err := row.Scan(&t.ID, &t.HashedToken, &t.ExpiresAt, &t.IssuedBy, &t.Consumed, &t.CreatedAt)
	if err != nil {
		return nil, wrapDB("get_active_setup_token", err)
	}
	return &t, nil
}

// ConsumeSetupToken atomically marks id as consumed, returning the
// number of rows actually updated — 0 means it was already consumed (or
// never existed) by the time this ran, which the caller treats as
// SetupTokenMissing regardless of which.
func (q *Queries) ConsumeSetupToken(ctx context.Context, id string) (int64, error) {
	tag, err := q.q.Exec(ctx, `
		UPDATE setup_tokens SET consumed = true WHERE id = $1 AND consumed = false`, id)
	if err != nil {
		return 0, wrapDB("consume_setup_token", err)
	}
	return tag.RowsAffected(), nil
}

// CleanupExpiredSetupTokens deletes rows that are both expired and
// already consumed, keeping the table from growing unbounded; run
// periodically, not on the request hot path.
func (q *Queries) CleanupExpiredSetupTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := q.q.Exec(ctx, `DELETE FROM setup_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, wrapDB("cleanup_expired_setup_tokens", err)
	}
	return tag.RowsAffected(), nil
}
