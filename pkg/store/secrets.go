package store

import (
	"context"

	"github.com/revaer/revaer/pkg/types"
)

// GetNamedSecret reads one named secret's ciphertext.
func (q *Queries) GetNamedSecret(ctx context.Context, name string) (*types.NamedSecret, error) {
	row := q.q.QueryRow(ctx, `
		SELECT name, ciphertext, created_at, updated_at FROM named_secrets WHERE name = $1`, name)
	var s types.NamedSecret
	if err := row.Scan(&s.Name, &s.Ciphertext, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, wrapDB("get_named_secret", err)
	}
	return &s, nil
}

// UpsertNamedSecret inserts or replaces a named secret's ciphertext.
func (q *Queries) UpsertNamedSecret(ctx context.Context, name string, ciphertext []byte) error {
	_, err := q.q.Exec(ctx, `
		INSERT INTO named_secrets (name, ciphertext) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET ciphertext = EXCLUDED.ciphertext`, name, ciphertext)
	return wrapDB("upsert_named_secret", err)
}

// DeleteNamedSecret removes a named secret row.
func (q *Queries) DeleteNamedSecret(ctx context.Context, name string) error {
	_, err := q.q.Exec(ctx, `DELETE FROM named_secrets WHERE name = $1`, name)
	return wrapDB("delete_named_secret", err)
}
