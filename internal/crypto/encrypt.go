package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2 parameters for the wallet vault
	//
	// 100k iterations of HMAC-SHA256 keeps derivation around 100-200ms on
	// commodity hardware. OWASP currently lists 600k for this hash; each blob
	// carries its own iteration count, so the default can be raised later and
	// existing blobs stay decryptable.
	DefaultIterations = 100_000
	KeyLen            = 32
	SaltLen           = 16
	NonceLen          = 12

	// Algorithm identifies the cipher recorded in every blob.
	Algorithm = "AES-256-GCM"
)

// RandomBytes returns n bytes from the platform CSPRNG.
// The platform RNG is assumed available; a failure panics.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto: random source unavailable: %v", err))
	}
	return b
}

// DeriveKey derives a 256-bit AES key from password using PBKDF2-HMAC-SHA256.
// The same (password, salt, iterations) always yields the same key.
// password must be []byte for security (caller should zero it after use)
func DeriveKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeyLen, sha256.New)
}

// Encrypt seals plaintext with AES-256-GCM. The returned ciphertext has the
// 16-byte authentication tag appended.
func Encrypt(key, nonce, plaintext []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	return aesGCM.Seal(nil, nonce, plaintext, nil), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("invalid key length %d", len(key))
	}

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aesGCM, nil
}
