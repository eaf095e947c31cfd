package security

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

// ErrStoredHashInvalid is returned by Verify when the stored PHC string
// itself cannot be parsed — a corrupted or foreign hash, distinct from a
// verified mismatch. The configuration facade surfaces this as its
// StoredHashInvalid error (fatal, logged, 500).
var ErrStoredHashInvalid = errors.New("stored hash is not a valid argon2id PHC string")

// HashSecret derives a PHC-format Argon2id hash string from a plaintext
// secret (an API key secret or a setup token), using a fresh random salt
// per call.
func HashSecret(secret string) (string, error) {
	hash, err := argon2id.CreateHash(secret, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return hash, nil
}

// VerifySecret compares candidate against phc in constant time. It
// returns (true, nil) on match, (false, nil) on a clean mismatch, and
// (false, ErrStoredHashInvalid) when phc itself cannot be parsed.
func VerifySecret(phc, candidate string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(candidate, phc)
	if err != nil {
		if errors.Is(err, argon2id.ErrInvalidHash) || errors.Is(err, argon2id.ErrIncompatibleVariant) || errors.Is(err, argon2id.ErrIncompatibleVersion) {
			return false, ErrStoredHashInvalid
		}
		return false, fmt.Errorf("verify secret: %w", err)
	}
	return match, nil
}
