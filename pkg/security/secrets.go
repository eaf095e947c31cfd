package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/revaer/revaer/pkg/types"
)

// SecretsManager handles encryption and decryption of NamedSecret
// ciphertext for the configuration facade's secrets[] changeset
// sub-update (spec §3 supplemental entity, §4.4 step 7).
type SecretsManager struct {
	encryptionKey []byte // 32 bytes for AES-256
}

// NewSecretsManager creates a new secrets manager with the given
// encryption key. The key must be 32 bytes for AES-256-GCM.
func NewSecretsManager(key []byte) (*SecretsManager, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes for AES-256, got %d", len(key))
	}

	return &SecretsManager{
		encryptionKey: key,
	}, nil
}

// NewSecretsManagerFromPassword creates a secrets manager using a
// passphrase, hashed with SHA-256 to derive the encryption key. Used
// when the master key is supplied as an operator-provided passphrase
// rather than raw key bytes.
func NewSecretsManagerFromPassword(password string) (*SecretsManager, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	return NewSecretsManager(DeriveKeyFromPassphrase(password))
}

// DeriveKeyFromPassphrase derives a 32-byte AES-256 key from an
// operator-supplied passphrase, such as the REVAER_MASTER_KEY
// environment variable consumed at startup.
func DeriveKeyFromPassphrase(passphrase string) []byte {
	hash := sha256.Sum256([]byte(passphrase))
	return hash[:]
}

// EncryptSecret encrypts plaintext data using AES-256-GCM. The returned
// ciphertext has the nonce prepended.
func (sm *SecretsManager) EncryptSecret(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("cannot encrypt empty data")
	}

	block, err := aes.NewCipher(sm.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return ciphertext, nil
}

// DecryptSecret decrypts data encrypted with EncryptSecret, expecting
// the nonce to be prepended to the ciphertext.
func (sm *SecretsManager) DecryptSecret(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("cannot decrypt empty data")
	}

	block, err := aes.NewCipher(sm.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// CreateNamedSecret encrypts plaintext and returns a NamedSecret row
// ready for upsert into the store.
func (sm *SecretsManager) CreateNamedSecret(name string, plaintext []byte) (*types.NamedSecret, error) {
	if name == "" {
		return nil, fmt.Errorf("secret name cannot be empty")
	}

	ciphertext, err := sm.EncryptSecret(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt secret %q: %w", name, err)
	}

	now := time.Now()
	return &types.NamedSecret{
		Name:       name,
		Ciphertext: ciphertext,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// DecryptNamedSecret returns the plaintext behind a stored NamedSecret.
func (sm *SecretsManager) DecryptNamedSecret(secret *types.NamedSecret) ([]byte, error) {
	if secret == nil {
		return nil, fmt.Errorf("secret cannot be nil")
	}

	return sm.DecryptSecret(secret.Ciphertext)
}
