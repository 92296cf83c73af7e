// Package securestore keeps small session objects encrypted under a key
// derived from a per-install device identifier. It is a convenience store:
// reads fail soft and report the value as absent.
package securestore

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/AlexZinkM/local-vault/internal/crypto"
	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/recovery"
	"github.com/AlexZinkM/local-vault/internal/storage"
	"github.com/AlexZinkM/local-vault/internal/vault"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/hkdf"
)

// DeviceIDKey holds the plaintext device identifier. It is not a secret.
const DeviceIDKey = "__device_id"

var (
	// ErrReservedKey is returned for keys owned by another component of the
	// shared storage: the device id, the wallet slot and the recovery set.
	ErrReservedKey = errors.New("reserved storage key")

	reservedKeys = map[string]struct{}{
		DeviceIDKey:         {},
		vault.WalletKey:     {},
		recovery.AnswersKey: {},
	}

	masterSalt = []byte("local-vault/secure-storage/v1")
	entryInfo  = []byte("local-vault secure storage entry")
)

// Store is the Generic Secure Storage. It shares no keys with the wallet vault.
type Store struct {
	store      storage.Store
	clientEnv  string
	iterations int
	log        zerolog.Logger

	mu        sync.Mutex
	masterKey []byte // derived once per device id, dropped by ResetDevice
}

// Option configures a Store
type Option func(*Store)

// WithIterations sets the PBKDF2 iteration count for the master key.
func WithIterations(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.iterations = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates a Store. clientEnv identifies the client environment and is
// mixed into the master key together with the device id.
func New(store storage.Store, clientEnv string, opts ...Option) *Store {
	s := &Store{
		store:      store,
		clientEnv:  clientEnv,
		iterations: crypto.DefaultIterations,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "securestore").Logger()
	return s
}

// SetItem JSON-encodes value and stores it encrypted under key with a fresh
// salt and nonce. A rejected write is reported as *storage.WriteError.
func (s *Store) SetItem(key string, value any) error {
	if isReserved(key) {
		return ErrReservedKey
	}

	plaintext, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	defer clear(plaintext)

	master, err := s.key()
	if err != nil {
		return err
	}

	salt := crypto.RandomBytes(crypto.SaltLen)
	nonce := crypto.RandomBytes(crypto.NonceLen)

	entryKey, err := deriveEntryKey(master, salt)
	if err != nil {
		return err
	}
	defer clear(entryKey)

	ciphertext, err := crypto.Encrypt(entryKey, nonce, plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt item: %w", err)
	}

	data, err := json.Marshal(model.SecureEntry{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Salt:       base64.StdEncoding.EncodeToString(salt),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if err := s.store.Set(key, data); err != nil {
		return fmt.Errorf("failed to store item: %w", err)
	}
	return nil
}

// GetItem decrypts the value stored under key into out. It returns false if
// the key is absent or the entry cannot be read (for example after a device
// id change); such failures are logged, never returned.
func (s *Store) GetItem(key string, out any) bool {
	if isReserved(key) {
		return false
	}

	data, err := s.store.Get(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to read item")
		}
		return false
	}

	if err := s.open(data, out); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable item")
		return false
	}
	return true
}

// Get is a typed GetItem.
func Get[T any](s *Store, key string) (T, bool) {
	var v T
	ok := s.GetItem(key, &v)
	return v, ok
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (s *Store) RemoveItem(key string) error {
	if isReserved(key) {
		return ErrReservedKey
	}
	if err := s.store.Remove(key); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

// HasItem reports whether an entry is stored under key, readable or not.
func (s *Store) HasItem(key string) bool {
	if isReserved(key) {
		return false
	}
	_, err := s.store.Get(key)
	return err == nil
}

// ResetDevice replaces the device identifier and drops the cached master key.
// Entries written before the reset can no longer be read.
func (s *Store) ResetDevice() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(DeviceIDKey, []byte(uuid.NewString())); err != nil {
		return fmt.Errorf("failed to store device id: %w", err)
	}
	// In-flight calls may still hold the old key, so it is dropped rather than zeroed
	s.masterKey = nil

	s.log.Info().Msg("device id rotated")
	return nil
}

func (s *Store) open(data []byte, out any) error {
	var entry model.SecureEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(entry.Ciphertext)
	if err != nil {
		return fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(entry.IV)
	if err != nil {
		return fmt.Errorf("failed to decode iv: %w", err)
	}
	salt, err := base64.StdEncoding.DecodeString(entry.Salt)
	if err != nil {
		return fmt.Errorf("failed to decode salt: %w", err)
	}

	master, err := s.key()
	if err != nil {
		return err
	}

	entryKey, err := deriveEntryKey(master, salt)
	if err != nil {
		return err
	}
	defer clear(entryKey)

	plaintext, err := crypto.Decrypt(entryKey, nonce, ciphertext)
	if err != nil {
		return err
	}
	defer clear(plaintext)

	if err := json.Unmarshal(plaintext, out); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// key returns the cached master key, deriving it on first use.
func (s *Store) key() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.masterKey != nil {
		return s.masterKey, nil
	}

	deviceID, err := s.deviceID()
	if err != nil {
		return nil, err
	}

	material := []byte(deviceID + "|" + s.clientEnv)
	s.masterKey = crypto.DeriveKey(material, masterSalt, s.iterations)
	clear(material)
	return s.masterKey, nil
}

// deviceID loads the device identifier, generating and persisting one on
// first use. Caller must hold s.mu.
func (s *Store) deviceID() (string, error) {
	data, err := s.store.Get(DeviceIDKey)
	if err == nil && len(data) > 0 {
		return string(data), nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}

	id := uuid.NewString()
	if err := s.store.Set(DeviceIDKey, []byte(id)); err != nil {
		return "", fmt.Errorf("failed to store device id: %w", err)
	}
	return id, nil
}

func isReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// deriveEntryKey expands the master key into a per-entry AES key bound to salt.
func deriveEntryKey(master, salt []byte) ([]byte, error) {
	k := make([]byte, crypto.KeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, salt, entryInfo), k); err != nil {
		return nil, fmt.Errorf("failed to derive entry key: %w", err)
	}
	return k, nil
}
