package vault

import "errors"

var (
	// ErrDecryption covers a wrong password as well as a tampered or corrupted
	// blob. The two cases are deliberately indistinguishable.
	ErrDecryption = errors.New("incorrect password or corrupted data")

	// ErrNoWalletFound is returned when an operation needs a stored wallet.
	ErrNoWalletFound = errors.New("no wallet found")

	// ErrInvalidFormat is returned for malformed blobs and backups.
	ErrInvalidFormat = errors.New("invalid wallet format")
)
