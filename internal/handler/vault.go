package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/recovery"
	"github.com/AlexZinkM/local-vault/internal/storage"
	"github.com/AlexZinkM/local-vault/internal/vault"
	"github.com/AlexZinkM/local-vault/solana"

	"github.com/rs/zerolog"
)

// VaultHandler serves the wallet vault operations
type VaultHandler struct {
	vault    *vault.Vault
	recovery *recovery.Store
	log      zerolog.Logger
}

// NewVaultHandler creates a new VaultHandler
func NewVaultHandler(v *vault.Vault, rs *recovery.Store, log zerolog.Logger) *VaultHandler {
	return &VaultHandler{vault: v, recovery: rs, log: log}
}

// Setup handles POST /vault/setup
// @Summary      Create wallet vault
// @Description  Generates a new wallet (or restores one from a mnemonic) and seals it under the password
// @Tags         vault
// @Accept       json
// @Produce      json
// @Param        request  body      model.SetupRequest  true  "Password and optional mnemonic"
// @Success      200      {object}  model.SetupResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /vault/setup [post]
func (h *VaultHandler) Setup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.SetupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password) // Always clear password from memory

	if len(password) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "password cannot be empty")
		return
	}
	if h.vault.Exists() {
		writeError(w, http.StatusConflict, CodeWalletExists, "wallet already exists")
		return
	}

	var (
		record *model.WalletSecret
		err    error
	)
	if req.Mnemonic != "" {
		record, err = solana.WalletFromMnemonic(req.Mnemonic)
	} else {
		record, err = solana.GenerateWallet()
	}
	if err != nil {
		if errors.Is(err, solana.ErrInvalidMnemonic) {
			writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
			return
		}
		h.internalError(w, err)
		return
	}

	if err := h.vault.Seal(record, password); err != nil {
		writeVaultError(w, h.log, err)
		return
	}

	qrCode, err := solana.QRCode(record.Address)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to generate QR code")
	}

	writeJSON(w, http.StatusOK, model.SetupResponse{
		Success: true,
		Message: "Wallet created successfully",
		Address: record.Address,
		QR:      qrCode,
	})
}

// Status handles GET /vault/status
// @Summary      Vault status
// @Description  Reports whether a wallet and a recovery set are stored
// @Tags         vault
// @Produce      json
// @Success      200  {object}  model.StatusResponse
// @Router       /vault/status [get]
func (h *VaultHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, model.StatusResponse{
		WalletExists:      h.vault.Exists(),
		RecoverySetExists: h.recovery.Exists(),
	})
}

// Verify handles POST /vault/verify
// @Summary      Verify password
// @Description  Checks the password against the stored wallet. Always 200; valid is false for every failure
// @Tags         vault
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordRequest  true  "Password"
// @Success      200      {object}  model.VerifyResponse
// @Router       /vault/verify [post]
func (h *VaultHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.PasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	writeJSON(w, http.StatusOK, model.VerifyResponse{Valid: h.vault.VerifyPassword(password)})
}

// ChangePassword handles POST /vault/password
// @Summary      Change password
// @Description  Re-encrypts the wallet under a new password
// @Tags         vault
// @Accept       json
// @Produce      json
// @Param        request  body      model.ChangePasswordRequest  true  "Old and new password"
// @Success      200      {object}  model.MessageResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /vault/password [post]
func (h *VaultHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	changePassword(w, h.vault, h.log, req.OldPassword, req.NewPassword)
}

// Export handles GET /vault/export
// @Summary      Export encrypted backup
// @Description  Returns the stored encrypted blob exactly as persisted
// @Tags         vault
// @Produce      json
// @Success      200  {object}  model.EncryptedBlob
// @Failure      404  {object}  model.ErrorResponse
// @Router       /vault/export [get]
func (h *VaultHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	data, err := h.vault.Export()
	if err != nil {
		writeVaultError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="wallet-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /vault/import
// @Summary      Restore encrypted backup
// @Description  Replaces the stored wallet with an exported blob. The password is not checked
// @Tags         vault
// @Accept       json
// @Produce      json
// @Param        request  body      model.EncryptedBlob  true  "Exported blob"
// @Success      200      {object}  model.MessageResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /vault/import [post]
func (h *VaultHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if !requireJSON(w, r) {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	if err := h.vault.Import(data); err != nil {
		writeVaultError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Wallet imported"})
}

// Clear handles DELETE /vault
// @Summary      Delete wallet
// @Description  Removes the stored wallet. Succeeds when nothing is stored
// @Tags         vault
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Router       /vault [delete]
func (h *VaultHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}

	if err := h.vault.Clear(); err != nil {
		writeVaultError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Wallet cleared"})
}

func (h *VaultHandler) internalError(w http.ResponseWriter, err error) {
	h.log.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

// changePassword is shared by the password and recovery reset endpoints.
func changePassword(w http.ResponseWriter, v *vault.Vault, log zerolog.Logger, oldPw, newPw string) {
	oldPassword := []byte(oldPw)
	newPassword := []byte(newPw)
	defer clear(oldPassword)
	defer clear(newPassword)

	if len(newPassword) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "new password cannot be empty")
		return
	}

	if err := v.ChangePassword(oldPassword, newPassword); err != nil {
		writeVaultError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Password changed"})
}

// writeVaultError maps vault and storage errors to responses.
func writeVaultError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, vault.ErrDecryption):
		writeError(w, http.StatusUnauthorized, CodeDecryption, msgDecryption)
	case errors.Is(err, vault.ErrNoWalletFound):
		writeError(w, http.StatusNotFound, CodeNoWallet, err.Error())
	case errors.Is(err, vault.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, CodeInvalidFormat, "invalid wallet backup format")
	case storage.IsWriteError(err):
		log.Error().Err(err).Msg("storage write failed")
		writeError(w, http.StatusInsufficientStorage, CodeStorage, "failed to write to storage")
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
