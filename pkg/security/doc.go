/*
Package security provides the two cryptographic primitives Revaer's
configuration facade depends on: Argon2id secret hashing (C2) and
AES-256-GCM encryption of NamedSecret ciphertext.

# Secret hashing

HashSecret and VerifySecret wrap github.com/alexedwards/argon2id to
produce and check standard PHC-format strings
(`$argon2id$v=19$m=...,t=...,p=...$salt$hash`). API-key secrets and
setup-token plaintext are hashed with HashSecret before storage and
never retained in cleartext; VerifySecret distinguishes three outcomes —
match, clean mismatch, and ErrStoredHashInvalid for a stored hash that
doesn't even parse as PHC, which the configuration facade surfaces as a
fatal, logged 500 rather than an auth failure.

# Secrets encryption

SecretsManager encrypts and decrypts the ciphertext behind a
types.NamedSecret using AES-256-GCM, with a random nonce generated per
call and prepended to the ciphertext:

	[nonce(12) || ciphertext || tag(16)]

The encryption key is either supplied directly (32 bytes) or derived
from an operator passphrase such as the REVAER_MASTER_KEY environment
variable via DeriveKeyFromPassphrase. Unlike a multi-tenant system with
a process-wide master key, each SecretsManager instance here is
constructed once at startup from that single operator-supplied key —
there is no per-tenant key hierarchy to manage.

# Usage

	sm, err := security.NewSecretsManagerFromPassword(os.Getenv("REVAER_MASTER_KEY"))
	if err != nil {
		return err
	}

	secret, err := sm.CreateNamedSecret("tracker-proxy-creds", []byte(plaintext))
	// secret.Ciphertext is what gets upserted into the named_secrets table

	plaintext, err := sm.DecryptNamedSecret(secret)

	hash, err := security.HashSecret(apiKeySecret)
	// hash is what gets stored as ApiKey.HashedSecret

	match, err := security.VerifySecret(storedHash, candidateSecret)
	if errors.Is(err, security.ErrStoredHashInvalid) {
		// fatal: the persisted hash is corrupt, not just a mismatch
	}
*/
package security
