package crypto

import (
	"errors"
)

// ErrAuthentication is returned when the GCM tag does not verify. A wrong key
// and tampered data produce the same error.
var ErrAuthentication = errors.New("authentication failed")

// Decrypt opens ciphertext produced by Encrypt.
func Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// A nonce of the wrong size can only come from a corrupted record
	if len(nonce) != aesGCM.NonceSize() {
		return nil, ErrAuthentication
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}

	return plaintext, nil
}
