package types

import "time"

// RateLimit configures a token-bucket limiter keyed on an ApiKey's id.
type RateLimit struct {
	Burst           int
	ReplenishPeriod time.Duration
}

// ApiKey is a hashed credential used to authenticate HTTP/SSE requests.
// Secret is never stored in plaintext; HashedSecret holds an Argon2id PHC
// string.
type ApiKey struct {
	KeyID        string
	HashedSecret string
	Label        string
	Enabled      bool
	ExpiresAt    time.Time
	RateLimit    *RateLimit
	CreatedAt    time.Time
}

// SetupToken authorises the one-way Setup→Active transition. HashedToken
// holds an Argon2id PHC string over the high-entropy plaintext, which is
// returned to the caller exactly once by IssueSetupToken and never
// persisted or logged.
type SetupToken struct {
	ID         string
	HashedToken string
	ExpiresAt   time.Time
	IssuedBy    string
	Consumed    bool
	CreatedAt   time.Time
}

// NamedSecret is an encrypted credential blob referenced by name from
// EngineProfile tracker fields (TrackerProxy.CredentialRef,
// TrackerAuth.CredentialRef). Ciphertext is AES-256-GCM with a
// nonce-prepended envelope; the facade never returns it in cleartext.
type NamedSecret struct {
	Name       string
	Ciphertext []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
