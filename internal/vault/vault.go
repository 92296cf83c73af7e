// Package vault stores a single wallet secret encrypted under a user password.
//
// Every decrypt is a fresh operation: the vault never caches plaintext or
// derived keys. Calls touching the stored blob are not serialized; callers
// must not run overlapping writes (for example two ChangePassword calls).
package vault

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlexZinkM/local-vault/internal/common"
	"github.com/AlexZinkM/local-vault/internal/crypto"
	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/storage"

	"github.com/rs/zerolog"
)

const (
	// WalletKey is the single storage slot holding the active wallet.
	WalletKey = "encrypted_wallet"

	// maxIterations bounds the work an imported or corrupted blob can demand.
	maxIterations = 10_000_000
)

// Vault encrypts, persists and rotates the wallet secret.
type Vault struct {
	store      storage.Store
	iterations int
	log        zerolog.Logger
}

// Option configures a Vault
type Option func(*Vault)

// WithIterations sets the PBKDF2 iteration count used for new blobs.
// Existing blobs are always decrypted with the count they carry.
func WithIterations(n int) Option {
	return func(v *Vault) {
		if n > 0 {
			v.iterations = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(v *Vault) {
		v.log = l
	}
}

// New creates a Vault persisting to store.
func New(store storage.Store, opts ...Option) *Vault {
	v := &Vault{
		store:      store,
		iterations: crypto.DefaultIterations,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With().Str("component", "vault").Logger()
	return v
}

// EncryptWallet encrypts the record under password with a fresh salt and nonce.
// password must be []byte for security (caller should zero it after use)
func (v *Vault) EncryptWallet(record *model.WalletSecret, password []byte) (*model.EncryptedBlob, error) {
	if record == nil {
		return nil, errors.New("wallet record is nil")
	}

	// Serialize wallet data
	plaintext, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	salt := crypto.RandomBytes(crypto.SaltLen)
	nonce := crypto.RandomBytes(crypto.NonceLen)

	key := crypto.DeriveKey(password, salt, v.iterations)
	defer clear(key)

	ciphertext, err := crypto.Encrypt(key, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	return &model.EncryptedBlob{
		EncryptedData: base64.StdEncoding.EncodeToString(ciphertext),
		Salt:          base64.StdEncoding.EncodeToString(salt),
		IV:            base64.StdEncoding.EncodeToString(nonce),
		Iterations:    v.iterations,
		Algorithm:     crypto.Algorithm,
	}, nil
}

// DecryptWallet decrypts blob with password. Any failure, including a wrong
// password, is reported as ErrDecryption.
// password must be []byte for security (caller should zero it after use)
func (v *Vault) DecryptWallet(blob *model.EncryptedBlob, password []byte) (*model.WalletSecret, error) {
	params, err := decodeBlob(blob)
	if err != nil {
		v.log.Debug().Err(err).Msg("rejecting undecodable blob")
		return nil, ErrDecryption
	}

	key := crypto.DeriveKey(password, params.salt, blob.Iterations)
	defer clear(key)

	plaintext, err := crypto.Decrypt(key, params.nonce, params.ciphertext)
	if err != nil {
		return nil, ErrDecryption
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var record model.WalletSecret
	if err := json.Unmarshal(plaintext, &record); err != nil {
		return nil, ErrDecryption
	}

	return &record, nil
}

// Seal encrypts record under password and stores it as the active wallet.
func (v *Vault) Seal(record *model.WalletSecret, password []byte) error {
	blob, err := v.EncryptWallet(record, password)
	if err != nil {
		return err
	}
	if err := v.Store(blob); err != nil {
		return err
	}

	v.log.Info().Str("address", common.MaskAddress(record.Address)).Msg("wallet sealed")
	return nil
}

// Store persists blob in the wallet slot, replacing any previous wallet.
func (v *Vault) Store(blob *model.EncryptedBlob) error {
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to marshal blob: %w", err)
	}

	if err := v.store.Set(WalletKey, data); err != nil {
		return fmt.Errorf("failed to store wallet: %w", err)
	}
	return nil
}

// Load returns the stored blob, or ErrNoWalletFound.
func (v *Vault) Load() (*model.EncryptedBlob, error) {
	data, err := v.store.Get(WalletKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoWalletFound
		}
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	blob, err := parseBlob(data)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// Exists reports whether a wallet is stored.
func (v *Vault) Exists() bool {
	_, err := v.store.Get(WalletKey)
	return err == nil
}

// Clear removes the stored wallet. Clearing an empty vault is not an error.
func (v *Vault) Clear() error {
	if err := v.store.Remove(WalletKey); err != nil {
		return fmt.Errorf("failed to clear wallet: %w", err)
	}

	v.log.Info().Msg("wallet cleared")
	return nil
}

// VerifyPassword reports whether password decrypts the stored wallet. It
// returns false for every failure and never says which one occurred.
func (v *Vault) VerifyPassword(password []byte) bool {
	blob, err := v.Load()
	if err != nil {
		return false
	}

	record, err := v.DecryptWallet(blob, password)
	if err != nil {
		return false
	}
	wipeRecord(record)
	return true
}

// ChangePassword re-encrypts the stored wallet under newPassword with a fresh
// salt and nonce. On any failure the stored blob is left exactly as it was.
// passwords must be []byte for security (caller should zero them after use)
func (v *Vault) ChangePassword(oldPassword, newPassword []byte) error {
	blob, err := v.Load()
	if err != nil {
		return err
	}

	record, err := v.DecryptWallet(blob, oldPassword)
	if err != nil {
		return err
	}
	defer wipeRecord(record)

	newBlob, err := v.EncryptWallet(record, newPassword)
	if err != nil {
		return err
	}

	// Single write: the store either keeps the old blob or holds the new one
	if err := v.Store(newBlob); err != nil {
		return err
	}

	v.log.Info().Str("address", common.MaskAddress(record.Address)).Msg("wallet password changed")
	return nil
}

// Export returns the stored blob exactly as persisted, or ErrNoWalletFound.
func (v *Vault) Export() ([]byte, error) {
	data, err := v.store.Get(WalletKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoWalletFound
		}
		return nil, fmt.Errorf("failed to export wallet: %w", err)
	}
	return data, nil
}

// Import replaces the stored wallet with a serialized blob from Export. The
// password cannot be checked here; malformed input fails with
// ErrInvalidFormat before storage is touched.
func (v *Vault) Import(data []byte) error {
	blob, err := parseBlob(common.StripBOM(data))
	if err != nil {
		return err
	}

	if err := v.Store(blob); err != nil {
		return err
	}

	v.log.Info().Msg("wallet imported")
	return nil
}

type blobParams struct {
	salt       []byte
	nonce      []byte
	ciphertext []byte
}

// parseBlob unmarshals and validates a serialized blob.
func parseBlob(data []byte) (*model.EncryptedBlob, error) {
	var blob model.EncryptedBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if _, err := decodeBlob(&blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &blob, nil
}

// decodeBlob checks the blob metadata and decodes its base64 fields.
func decodeBlob(blob *model.EncryptedBlob) (*blobParams, error) {
	if blob == nil {
		return nil, errors.New("blob is nil")
	}
	if blob.Algorithm != crypto.Algorithm {
		return nil, fmt.Errorf("unsupported algorithm %q", blob.Algorithm)
	}
	if blob.Iterations <= 0 || blob.Iterations > maxIterations {
		return nil, fmt.Errorf("iteration count %d out of range", blob.Iterations)
	}

	salt, err := base64.StdEncoding.DecodeString(blob.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	if len(salt) == 0 {
		return nil, errors.New("salt is empty")
	}

	nonce, err := base64.StdEncoding.DecodeString(blob.IV)
	if err != nil {
		return nil, fmt.Errorf("failed to decode iv: %w", err)
	}
	if len(nonce) != crypto.NonceLen {
		return nil, fmt.Errorf("iv must be %d bytes", crypto.NonceLen)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(blob.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	if len(ciphertext) == 0 {
		return nil, errors.New("ciphertext is empty")
	}

	return &blobParams{salt: salt, nonce: nonce, ciphertext: ciphertext}, nil
}

// wipeRecord drops references to the secret fields. Go strings are immutable,
// so this only shortens how long the plaintext stays reachable.
func wipeRecord(r *model.WalletSecret) {
	r.Mnemonic = ""
	r.PrivateKey = ""
}
