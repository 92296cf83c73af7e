// Package legacy reads wallet files written by the earlier local-wallet
// format (.cwt: scrypt + AES-256-GCM) so they can be moved into the vault.
package legacy

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/local-vault/internal/common"
	"github.com/AlexZinkM/local-vault/internal/model"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/crypto/scrypt"
)

// ScryptParams are the scrypt cost parameters a .cwt file was written with.
type ScryptParams struct {
	N, R, P int
}

// DefaultScrypt matches the parameters every .cwt file was written with
// (N=2^18, ~256MB RAM).
var DefaultScrypt = ScryptParams{N: 1 << 18, R: 8, P: 1}

const scryptKeyLen = 32

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrKeyMismatch     = errors.New("private key does not match address")
)

// ReadCWT decrypts the .cwt file at filePath and converts it to a wallet
// record. Legacy files carry no mnemonic, so Mnemonic is empty.
// password must be []byte for security (caller should zero it after use)
func ReadCWT(filePath string, password []byte, params ScryptParams) (*model.WalletSecret, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Check that file is not empty
	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cwtFile model.CWTFile
	if err := json.Unmarshal(common.StripBOM(fileData), &cwtFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cwt file: %w", err)
	}

	walletData, err := openCWT(&cwtFile, password, params)
	if err != nil {
		return nil, err
	}
	defer clear(walletData.PrivateKey)

	// Verify private key length (full 64-byte key is stored)
	if len(walletData.PrivateKey) != 64 {
		return nil, errors.New("invalid private key length")
	}

	wallet := solana.PrivateKey(walletData.PrivateKey)
	fromPubkey, err := solana.PublicKeyFromBase58(cwtFile.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	if !wallet.PublicKey().Equals(fromPubkey) {
		return nil, ErrKeyMismatch
	}

	var createdAt int64
	if t, err := time.Parse(time.RFC3339, walletData.CreatedAt); err == nil {
		createdAt = t.UnixMilli()
	}

	return &model.WalletSecret{
		Address:    cwtFile.Address,
		PrivateKey: wallet.String(),
		CreatedAt:  createdAt,
	}, nil
}

func openCWT(cwtFile *model.CWTFile, password []byte, params ScryptParams) (*model.CWTWalletData, error) {
	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(cwtFile.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(cwtFile.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(cwtFile.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	// Derive key from password
	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, errors.New("invalid nonce length")
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var walletData model.CWTWalletData
	if err := json.Unmarshal(plaintext, &walletData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet data: %w", err)
	}

	return &walletData, nil
}
