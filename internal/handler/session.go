package handler

import (
	"errors"
	"net/http"

	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/securestore"
	"github.com/AlexZinkM/local-vault/internal/storage"

	"github.com/rs/zerolog"
)

// SessionHandler serves the active-account binding kept in secure storage
type SessionHandler struct {
	accounts *securestore.Accounts
	log      zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(accounts *securestore.Accounts, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{accounts: accounts, log: log}
}

// Account handles GET, PUT and DELETE /session/account
// @Summary      Active account
// @Description  GET returns the active account, PUT connects an address, DELETE logs out
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      model.ActiveAccountRequest  false  "Address (PUT only)"
// @Success      200      {object}  model.ActiveAccount
// @Failure      404      {object}  model.ErrorResponse
// @Router       /session/account [get]
// @Router       /session/account [put]
// @Router       /session/account [delete]
func (h *SessionHandler) Account(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		acct, ok := h.accounts.Active()
		if !ok {
			writeError(w, http.StatusNotFound, CodeNotFound, "no active account")
			return
		}
		writeJSON(w, http.StatusOK, acct)

	case http.MethodPut:
		var req model.ActiveAccountRequest
		if !decodeBody(w, r, &req) {
			return
		}

		acct, err := h.accounts.Connect(req.Address)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, acct)
		case errors.Is(err, securestore.ErrInvalidAddress):
			writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		case storage.IsWriteError(err):
			h.log.Error().Err(err).Msg("storage write failed")
			writeError(w, http.StatusInsufficientStorage, CodeStorage, "failed to write to storage")
		default:
			h.log.Error().Err(err).Msg("failed to connect account")
			writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
		}

	case http.MethodDelete:
		if err := h.accounts.Disconnect(); err != nil {
			h.log.Error().Err(err).Msg("failed to disconnect account")
			writeError(w, http.StatusInsufficientStorage, CodeStorage, "failed to write to storage")
			return
		}
		writeJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Logged out"})

	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}
