package solana

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlexZinkM/local-vault/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
	"github.com/tyler-smith/go-bip39"
)

const (
	mnemonicEntropyBits = 256 // 24 words
)

// ErrInvalidMnemonic is returned for phrases that fail the BIP39 checksum
var ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

// GenerateWallet generates a new 24-word mnemonic and the Solana keypair
// derived from it.
func GenerateWallet() (*model.WalletSecret, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	return WalletFromMnemonic(mnemonic)
}

// WalletFromMnemonic restores the keypair for an existing phrase. The key is
// derived like solana-keygen without a derivation path: the first 32 bytes
// of the BIP39 seed (empty passphrase) are the ed25519 seed.
func WalletFromMnemonic(mnemonic string) (*model.WalletSecret, error) {
	mnemonic = strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(mnemonic, "")
	defer clear(seed)

	wallet := solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]))
	defer clear(wallet)

	return &model.WalletSecret{
		Mnemonic:   mnemonic,
		Address:    wallet.PublicKey().String(),
		PrivateKey: wallet.String(),
		CreatedAt:  time.Now().UnixMilli(),
	}, nil
}

// IsValidAddress checks that address is a base58 Solana public key
func IsValidAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

// QRCode generates QR code of address in base64
func QRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	// Encode to base64
	return base64.StdEncoding.EncodeToString(png), nil
}
