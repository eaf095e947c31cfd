package config

import (
	"time"

	"github.com/revaer/revaer/pkg/security"
	"github.com/revaer/revaer/pkg/store"
)

// ApiKeyTTLDays is the default lifetime a fresh or refreshed API key's
// expires_at is pushed out to, per spec §4.5's "extends expiry by
// API_KEY_TTL_DAYS".
const ApiKeyTTLDays = 90

// ApiKeyMaxTTL bounds how far into the future a caller may set an API
// key's expires_at explicitly (pkg/validate.ApiKeyExpiry enforces this).
const ApiKeyMaxTTL = ApiKeyTTLDays * 24 * time.Hour

// DefaultSetupTokenTTL is used when IssueSetupToken is called with a
// zero ttl.
const DefaultSetupTokenTTL = 15 * time.Minute

// Facade is the configuration facade (C4).
type Facade struct {
	store   *store.Store
	hasher  secretHasher
	secrets *security.SecretsManager
	now     func() time.Time
}

// secretHasher abstracts pkg/security's package-level hash/verify
// functions so tests can substitute a faster scheme without pulling in
// a real argon2id computation per case.
type secretHasher interface {
	Hash(secret string) (string, error)
	Verify(phc, candidate string) (bool, error)
}

type argon2Hasher struct{}

func (argon2Hasher) Hash(secret string) (string, error)          { return security.HashSecret(secret) }
func (argon2Hasher) Verify(phc, candidate string) (bool, error)  { return security.VerifySecret(phc, candidate) }

// New builds a Facade over an already-open store and secrets manager.
func New(st *store.Store, secrets *security.SecretsManager) *Facade {
	return &Facade{store: st, hasher: argon2Hasher{}, secrets: secrets, now: time.Now}
}
