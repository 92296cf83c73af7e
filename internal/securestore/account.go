package securestore

import (
	"errors"
	"time"

	"github.com/AlexZinkM/local-vault/internal/common"
	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/solana"
)

// ActiveAccountKey holds the active wallet-address binding.
const ActiveAccountKey = "active_account"

var ErrInvalidAddress = errors.New("invalid Solana address")

// Accounts persists which wallet address is active across restarts.
type Accounts struct {
	store *Store
	now   func() time.Time
}

// NewAccounts creates Accounts on top of s
func NewAccounts(s *Store) *Accounts {
	return &Accounts{store: s, now: time.Now}
}

// Connect records address as the active account.
func (a *Accounts) Connect(address string) (*model.ActiveAccount, error) {
	if !solana.IsValidAddress(address) {
		return nil, ErrInvalidAddress
	}

	acct := &model.ActiveAccount{
		Address:     address,
		ConnectedAt: a.now().UnixMilli(),
	}
	if err := a.store.SetItem(ActiveAccountKey, acct); err != nil {
		return nil, err
	}

	a.store.log.Info().Str("address", common.MaskAddress(address)).Msg("active account connected")
	return acct, nil
}

// Active returns the active account, if one is stored and readable.
func (a *Accounts) Active() (*model.ActiveAccount, bool) {
	acct, ok := Get[model.ActiveAccount](a.store, ActiveAccountKey)
	if !ok || acct.Address == "" {
		return nil, false
	}
	return &acct, true
}

// Disconnect forgets the active account (logout).
func (a *Accounts) Disconnect() error {
	return a.store.RemoveItem(ActiveAccountKey)
}
