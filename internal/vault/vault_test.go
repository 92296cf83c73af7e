package vault

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/AlexZinkM/local-vault/internal/crypto"
	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/storage"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	testIterations = 1000
	testPassword   = "Test@Password123"
	testMnemonic   = "abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon art"
	testAddress = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAY5HFKQ"
)

func newTestVault(t *testing.T) (*Vault, *storage.MemoryStore) {
	t.Helper()
	s := storage.NewMemoryStore()
	return New(s, WithIterations(testIterations)), s
}

func testRecord() *model.WalletSecret {
	return &model.WalletSecret{
		Mnemonic:  testMnemonic,
		Address:   testAddress,
		CreatedAt: 1700000000000,
	}
}

// TestScenarioSealVerifyDecrypt follows the wallet setup and unlock flow.
func TestScenarioSealVerifyDecrypt(t *testing.T) {
	v, _ := newTestVault(t)
	record := testRecord()

	blob, err := v.EncryptWallet(record, []byte(testPassword))
	require.NoError(t, err)
	require.NoError(t, v.Store(blob))
	require.True(t, v.Exists())

	require.True(t, v.VerifyPassword([]byte(testPassword)))
	require.False(t, v.VerifyPassword([]byte("wrong")))

	loaded, err := v.Load()
	require.NoError(t, err)
	require.Equal(t, blob, loaded)

	got, err := v.DecryptWallet(loaded, []byte(testPassword))
	require.NoError(t, err)
	require.Equal(t, record, got)
}

func TestBlobShape(t *testing.T) {
	v, _ := newTestVault(t)

	blob, err := v.EncryptWallet(testRecord(), []byte(testPassword))
	require.NoError(t, err)

	salt, err := base64.StdEncoding.DecodeString(blob.Salt)
	require.NoError(t, err)
	require.Len(t, salt, crypto.SaltLen)

	iv, err := base64.StdEncoding.DecodeString(blob.IV)
	require.NoError(t, err)
	require.Len(t, iv, crypto.NonceLen)

	require.Equal(t, testIterations, blob.Iterations)
	require.Equal(t, crypto.Algorithm, blob.Algorithm)

	data, err := json.Marshal(blob)
	require.NoError(t, err)
	for _, field := range []string{"encryptedData", "salt", "iv", "iterations", "algorithm"} {
		require.Contains(t, string(data), `"`+field+`"`)
	}
}

func TestDefaultIterations(t *testing.T) {
	v := New(storage.NewMemoryStore())

	blob, err := v.EncryptWallet(testRecord(), []byte(testPassword))
	require.NoError(t, err)
	require.Equal(t, crypto.DefaultIterations, blob.Iterations)

	// A vault configured differently still opens blobs by their own count
	fast, _ := newTestVault(t)
	got, err := fast.DecryptWallet(blob, []byte(testPassword))
	require.NoError(t, err)
	require.Equal(t, testRecord(), got)
}

func TestEncryptionIsProbabilistic(t *testing.T) {
	v, _ := newTestVault(t)

	a, err := v.EncryptWallet(testRecord(), []byte(testPassword))
	require.NoError(t, err)
	b, err := v.EncryptWallet(testRecord(), []byte(testPassword))
	require.NoError(t, err)

	require.NotEqual(t, a.Salt, b.Salt)
	require.NotEqual(t, a.IV, b.IV)
	require.NotEqual(t, a.EncryptedData, b.EncryptedData)
}

func TestRoundTripEdgeCases(t *testing.T) {
	v, _ := newTestVault(t)

	words := make([]string, 5000)
	for i := range words {
		words[i] = "abandon"
	}

	tests := []struct {
		name     string
		record   *model.WalletSecret
		password string
	}{
		{"empty fields", &model.WalletSecret{}, testPassword},
		{"empty password", testRecord(), ""},
		{"long mnemonic", &model.WalletSecret{Mnemonic: strings.Join(words, " "), Address: testAddress}, testPassword},
		{"unicode fields", &model.WalletSecret{
			Mnemonic:   "こんにちは 世界 🔐🦊 ñandú",
			Address:    "адрес-кошелька",
			PrivateKey: "🗝️ clé privée",
			CreatedAt:  -1,
		}, testPassword},
		{"unicode password", testRecord(), "пароль🔑密码"},
		{"with private key", &model.WalletSecret{
			Mnemonic:   testMnemonic,
			Address:    testAddress,
			PrivateKey: strings.Repeat("ab", 64),
			CreatedAt:  1,
		}, testPassword},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blob, err := v.EncryptWallet(tc.record, []byte(tc.password))
			require.NoError(t, err)

			got, err := v.DecryptWallet(blob, []byte(tc.password))
			require.NoError(t, err)
			require.Equal(t, tc.record, got)
		})
	}
}

func TestRoundTripProperty(t *testing.T) {
	v := New(storage.NewMemoryStore(), WithIterations(1))

	rapid.Check(t, func(t *rapid.T) {
		record := &model.WalletSecret{
			Mnemonic:   rapid.String().Draw(t, "mnemonic"),
			Address:    rapid.String().Draw(t, "address"),
			PrivateKey: rapid.String().Draw(t, "privateKey"),
			CreatedAt:  rapid.Int64().Draw(t, "createdAt"),
		}
		password := rapid.String().Draw(t, "password")
		other := rapid.String().Draw(t, "other")

		blob, err := v.EncryptWallet(record, []byte(password))
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		got, err := v.DecryptWallet(blob, []byte(password))
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if *got != *record {
			t.Fatalf("round trip mismatch: %+v != %+v", got, record)
		}

		if other != password {
			if _, err := v.DecryptWallet(blob, []byte(other)); !errors.Is(err, ErrDecryption) {
				t.Fatalf("wrong password accepted: %v", err)
			}
		}
	})
}

func TestDecryptWrongPassword(t *testing.T) {
	v, _ := newTestVault(t)

	blob, err := v.EncryptWallet(testRecord(), []byte(testPassword))
	require.NoError(t, err)

	for _, pw := range []string{"wrong", "", "test@password123", testPassword + " "} {
		_, err := v.DecryptWallet(blob, []byte(pw))
		require.ErrorIs(t, err, ErrDecryption, "password %q", pw)
	}
}

// flipByte decodes a base64 field, flips one bit at index i and re-encodes it.
func flipByte(t *testing.T, field string, i int) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(field)
	require.NoError(t, err)
	raw[i] ^= 0x01
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecryptTamperedBlob(t *testing.T) {
	v, _ := newTestVault(t)
	password := []byte(testPassword)

	blob, err := v.EncryptWallet(testRecord(), password)
	require.NoError(t, err)

	rawCT, err := base64.StdEncoding.DecodeString(blob.EncryptedData)
	require.NoError(t, err)

	t.Run("ciphertext", func(t *testing.T) {
		for _, i := range []int{0, len(rawCT) / 2, len(rawCT) - 1} {
			tampered := *blob
			tampered.EncryptedData = flipByte(t, blob.EncryptedData, i)
			_, err := v.DecryptWallet(&tampered, password)
			require.ErrorIs(t, err, ErrDecryption)
		}
	})

	t.Run("salt", func(t *testing.T) {
		for i := 0; i < crypto.SaltLen; i++ {
			tampered := *blob
			tampered.Salt = flipByte(t, blob.Salt, i)
			_, err := v.DecryptWallet(&tampered, password)
			require.ErrorIs(t, err, ErrDecryption)
		}
	})

	t.Run("iv", func(t *testing.T) {
		for i := 0; i < crypto.NonceLen; i++ {
			tampered := *blob
			tampered.IV = flipByte(t, blob.IV, i)
			_, err := v.DecryptWallet(&tampered, password)
			require.ErrorIs(t, err, ErrDecryption)
		}
	})

	t.Run("iterations", func(t *testing.T) {
		tampered := *blob
		tampered.Iterations++
		_, err := v.DecryptWallet(&tampered, password)
		require.ErrorIs(t, err, ErrDecryption)

		tampered.Iterations = 0
		_, err = v.DecryptWallet(&tampered, password)
		require.ErrorIs(t, err, ErrDecryption)
	})

	t.Run("encoding", func(t *testing.T) {
		tampered := *blob
		tampered.EncryptedData = "%%%"
		_, err := v.DecryptWallet(&tampered, password)
		require.ErrorIs(t, err, ErrDecryption)

		tampered = *blob
		tampered.Algorithm = "AES-128-CBC"
		_, err = v.DecryptWallet(&tampered, password)
		require.ErrorIs(t, err, ErrDecryption)

		_, err = v.DecryptWallet(nil, password)
		require.ErrorIs(t, err, ErrDecryption)
	})
}

func TestChangePassword(t *testing.T) {
	v, _ := newTestVault(t)
	require.NoError(t, v.Seal(testRecord(), []byte("old-password")))

	before, err := v.Load()
	require.NoError(t, err)

	require.NoError(t, v.ChangePassword([]byte("old-password"), []byte("new-password")))
	require.False(t, v.VerifyPassword([]byte("old-password")))
	require.True(t, v.VerifyPassword([]byte("new-password")))

	after, err := v.Load()
	require.NoError(t, err)
	require.NotEqual(t, before.Salt, after.Salt)
	require.NotEqual(t, before.IV, after.IV)

	got, err := v.DecryptWallet(after, []byte("new-password"))
	require.NoError(t, err)
	require.Equal(t, testRecord(), got)
}

func TestChangePasswordWrongOldLeavesStorage(t *testing.T) {
	v, _ := newTestVault(t)
	require.NoError(t, v.Seal(testRecord(), []byte("old-password")))

	before, err := v.Export()
	require.NoError(t, err)

	err = v.ChangePassword([]byte("not-it"), []byte("new-password"))
	require.ErrorIs(t, err, ErrDecryption)

	after, err := v.Export()
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.True(t, v.VerifyPassword([]byte("old-password")))
	require.False(t, v.VerifyPassword([]byte("new-password")))
}

func TestChangePasswordWriteFailureLeavesStorage(t *testing.T) {
	v, s := newTestVault(t)
	require.NoError(t, v.Seal(testRecord(), []byte("old-password")))

	before, err := v.Export()
	require.NoError(t, err)

	s.FailWrites(errors.New("quota exceeded"))
	err = v.ChangePassword([]byte("old-password"), []byte("new-password"))
	require.True(t, storage.IsWriteError(err))

	s.FailWrites(nil)
	after, err := v.Export()
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.True(t, v.VerifyPassword([]byte("old-password")))
}

func TestChangePasswordNoWallet(t *testing.T) {
	v, _ := newTestVault(t)

	err := v.ChangePassword([]byte("a"), []byte("b"))
	require.ErrorIs(t, err, ErrNoWalletFound)
	require.False(t, v.Exists())
}

func TestVerifyPasswordNeverFails(t *testing.T) {
	v, s := newTestVault(t)

	// Nothing stored
	require.False(t, v.VerifyPassword([]byte(testPassword)))

	// Garbage stored
	require.NoError(t, s.Set(WalletKey, []byte("not json")))
	require.False(t, v.VerifyPassword([]byte(testPassword)))

	// Empty password against a real wallet
	require.NoError(t, v.Seal(testRecord(), []byte(testPassword)))
	require.False(t, v.VerifyPassword(nil))
}

func TestClearIdempotent(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Clear())
	require.False(t, v.Exists())

	require.NoError(t, v.Seal(testRecord(), []byte(testPassword)))
	require.True(t, v.Exists())

	require.NoError(t, v.Clear())
	require.NoError(t, v.Clear())
	require.False(t, v.Exists())

	_, err := v.Load()
	require.ErrorIs(t, err, ErrNoWalletFound)

	_, err = v.Export()
	require.ErrorIs(t, err, ErrNoWalletFound)
}

func TestExportImportRoundTrip(t *testing.T) {
	v, _ := newTestVault(t)
	require.NoError(t, v.Seal(testRecord(), []byte(testPassword)))

	exported, err := v.Export()
	require.NoError(t, err)

	require.NoError(t, v.Import(exported))
	again, err := v.Export()
	require.NoError(t, err)
	require.Equal(t, exported, again)

	// Restore into a fresh vault
	other, _ := newTestVault(t)
	require.NoError(t, other.Import(exported))
	require.True(t, other.VerifyPassword([]byte(testPassword)))
}

func TestImportMalformedLeavesStorage(t *testing.T) {
	v, _ := newTestVault(t)
	require.NoError(t, v.Seal(testRecord(), []byte(testPassword)))

	before, err := v.Export()
	require.NoError(t, err)

	inputs := []string{
		"",
		"{",
		"[]",
		`{"encryptedData":"AAAA"}`,
		`{"encryptedData":"!!","salt":"AAAAAAAAAAAAAAAAAAAAAA==","iv":"AAAAAAAAAAAAAAAA","iterations":1000,"algorithm":"AES-256-GCM"}`,
		`{"encryptedData":"AAAA","salt":"AAAAAAAAAAAAAAAAAAAAAA==","iv":"AAAA","iterations":1000,"algorithm":"AES-256-GCM"}`,
		`{"encryptedData":"AAAA","salt":"AAAAAAAAAAAAAAAAAAAAAA==","iv":"AAAAAAAAAAAAAAAA","iterations":-5,"algorithm":"AES-256-GCM"}`,
		`{"encryptedData":"AAAA","salt":"AAAAAAAAAAAAAAAAAAAAAA==","iv":"AAAAAAAAAAAAAAAA","iterations":1000,"algorithm":"none"}`,
	}

	for _, in := range inputs {
		err := v.Import([]byte(in))
		require.ErrorIs(t, err, ErrInvalidFormat, "input %q", in)
	}

	after, err := v.Export()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestImportWriteFailure(t *testing.T) {
	src, _ := newTestVault(t)
	require.NoError(t, src.Seal(testRecord(), []byte(testPassword)))
	exported, err := src.Export()
	require.NoError(t, err)

	v, s := newTestVault(t)
	s.FailWrites(errors.New("read-only"))

	err = v.Import(exported)
	require.True(t, storage.IsWriteError(err))
	require.False(t, v.Exists())
}

func TestLoadCorruptStoredBlob(t *testing.T) {
	v, s := newTestVault(t)
	require.NoError(t, s.Set(WalletKey, []byte(`{"broken":`)))

	_, err := v.Load()
	require.ErrorIs(t, err, ErrInvalidFormat)
}
