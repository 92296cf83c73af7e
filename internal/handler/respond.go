package handler

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/AlexZinkM/local-vault/internal/model"
)

const maxBodyBytes = 1 << 20

// Error codes returned in model.ErrorResponse.Code
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnsupportedType = "UNSUPPORTED_MEDIA_TYPE"
	CodeDecryption      = "DECRYPTION_FAILED"
	CodeNoWallet        = "NO_WALLET"
	CodeWalletExists    = "WALLET_EXISTS"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeAnswersMismatch = "ANSWERS_MISMATCH"
	CodeNoRecoverySet   = "NO_RECOVERY_SET"
	CodeInvalidAnswers  = "INVALID_ANSWERS"
	CodeStorage         = "STORAGE_FAILURE"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL"
)

// Messages shown to users. They never say which byte or answer was wrong.
const (
	msgDecryption      = "incorrect password or corrupted data"
	msgAnswersMismatch = "answers do not match"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: code})
}

// requireJSON writes a 415 unless the request declares a JSON body. Browsers
// cannot send application/json cross-site without a CORS preflight.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, CodeUnsupportedType, "Content-Type must be application/json")
		return false
	}
	return true
}

// decodeBody decodes a JSON request body into v, writing a 415 or 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if !requireJSON(w, r) {
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	http.Error(w, "Method not allowed. Should be "+allowed, http.StatusMethodNotAllowed)
}
