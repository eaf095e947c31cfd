package config

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/store"
	"github.com/revaer/revaer/pkg/types"
)

// setupTokenAlphabet excludes visually ambiguous characters (0/O, 1/I/l)
// to keep an operator's manual transcription of a plaintext token less
// error-prone.
const setupTokenAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// setupTokenLength is chosen so the token comfortably exceeds the
// spec's "≥32 chars" high-entropy requirement.
const setupTokenLength = 40

func generateSetupTokenSecret() (string, error) {
	return generateHighEntropySecret(setupTokenLength)
}

// generateHighEntropySecret draws length characters from
// setupTokenAlphabet, shared by setup-token issuance and API key
// minting so both credentials carry the same entropy and
// transcription-friendly character set.
func generateHighEntropySecret(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(setupTokenAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = setupTokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IssueSetupToken generates a high-entropy setup token, hashes it,
// invalidates every prior active token, inserts the new row, and
// returns the plaintext exactly once. A zero ttl uses
// DefaultSetupTokenTTL.
func (f *Facade) IssueSetupToken(ctx context.Context, ttl time.Duration, issuedBy string) (plaintext string, expiresAt time.Time, err error) {
	if ttl <= 0 {
		ttl = DefaultSetupTokenTTL
	}
	plaintext, err = generateSetupTokenSecret()
	if err != nil {
		return "", time.Time{}, &revaerr.SecretHashFailedError{Source: err}
	}
	hashed, err := f.hasher.Hash(plaintext)
	if err != nil {
		return "", time.Time{}, &revaerr.SecretHashFailedError{Source: err}
	}

	now := f.now()
	expiresAt = now.Add(ttl)

	err = f.store.ApplyInTx(ctx, func(ctx context.Context, q *store.Queries) error {
		if err := q.InvalidateActiveSetupTokens(ctx, now); err != nil {
			return err
		}
		return q.InsertSetupToken(ctx, &types.SetupToken{
			ID:          uuid.NewString(),
			HashedToken: hashed,
			ExpiresAt:   expiresAt,
			IssuedBy:    issuedBy,
		})
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return plaintext, expiresAt, nil
}

// ConsumeSetupToken validates token against the active setup token row
// and marks it consumed atomically, failing with a typed ConflictError
// distinguishing missing/expired/invalid per spec §4.4.
func (f *Facade) ConsumeSetupToken(ctx context.Context, token string) error {
	now := f.now()
	var consumeErr error
	err := f.store.ApplyInTx(ctx, func(ctx context.Context, q *store.Queries) error {
		active, err := q.GetActiveSetupToken(ctx, now)
		if err != nil {
			consumeErr = &revaerr.ConflictError{Code: revaerr.ConflictSetupTokenMissing}
			return consumeErr
		}
		if now.After(active.ExpiresAt) {
			consumeErr = &revaerr.ConflictError{Code: revaerr.ConflictSetupTokenExpired}
			return consumeErr
		}
		match, verr := f.hasher.Verify(active.HashedToken, token)
		if verr != nil {
			consumeErr = &revaerr.StoredHashInvalidError{Context: "setup_token"}
			return consumeErr
		}
		if !match {
			consumeErr = &revaerr.ConflictError{Code: revaerr.ConflictSetupTokenInvalid}
			return consumeErr
		}
		rows, err := q.ConsumeSetupToken(ctx, active.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Raced with another consumer between read and update.
			consumeErr = &revaerr.ConflictError{Code: revaerr.ConflictSetupTokenMissing}
			return consumeErr
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}
