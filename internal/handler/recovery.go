package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/recovery"
	"github.com/AlexZinkM/local-vault/internal/storage"
	"github.com/AlexZinkM/local-vault/internal/vault"

	"github.com/rs/zerolog"
)

// RecoveryHandler serves security-question setup, verification and the
// password reset flow
type RecoveryHandler struct {
	recovery *recovery.Store
	vault    *vault.Vault
	log      zerolog.Logger
}

// NewRecoveryHandler creates a new RecoveryHandler
func NewRecoveryHandler(rs *recovery.Store, v *vault.Vault, log zerolog.Logger) *RecoveryHandler {
	return &RecoveryHandler{recovery: rs, vault: v, log: log}
}

// Catalog handles GET /recovery/catalog
// @Summary      Random questions for setup
// @Description  Returns n distinct questions from the catalog in random order
// @Tags         recovery
// @Produce      json
// @Param        n    query     int  false  "Number of questions (default 3)"
// @Success      200  {object}  model.QuestionsResponse
// @Router       /recovery/catalog [get]
func (h *RecoveryHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	n := recovery.SetSize
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "n must be an integer")
			return
		}
		n = v
	}

	questions, err := recovery.RandomQuestions(n)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.QuestionsResponse{Questions: questions})
}

// Answers handles POST /recovery/answers
// @Summary      Store recovery answers
// @Description  Replaces the recovery set with exactly three hashed answers
// @Tags         recovery
// @Accept       json
// @Produce      json
// @Param        request  body      model.AnswersRequest  true  "Three answers"
// @Success      200      {object}  model.MessageResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /recovery/answers [post]
func (h *RecoveryHandler) Answers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.AnswersRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.recovery.StoreAnswers(req.Answers)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Recovery answers saved"})
	case errors.Is(err, recovery.ErrInvalidCount),
		errors.Is(err, recovery.ErrUnknownQuestion),
		errors.Is(err, recovery.ErrDuplicateQuestion):
		writeError(w, http.StatusBadRequest, CodeInvalidAnswers, err.Error())
	case storage.IsWriteError(err):
		h.log.Error().Err(err).Msg("storage write failed")
		writeError(w, http.StatusInsufficientStorage, CodeStorage, "failed to write to storage")
	default:
		h.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// Verify handles POST /recovery/verify
// @Summary      Verify recovery answers
// @Description  Always 200; valid is false for every failure
// @Tags         recovery
// @Accept       json
// @Produce      json
// @Param        request  body      model.AnswersRequest  true  "Answers"
// @Success      200      {object}  model.VerifyResponse
// @Router       /recovery/verify [post]
func (h *RecoveryHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.AnswersRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, model.VerifyResponse{Valid: h.recovery.VerifyAnswers(req.Answers)})
}

// Questions handles GET /recovery/questions
// @Summary      Stored recovery questions
// @Description  Returns the questions of the stored set, without answers
// @Tags         recovery
// @Produce      json
// @Success      200  {object}  model.QuestionsResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /recovery/questions [get]
func (h *RecoveryHandler) Questions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	questions, err := h.recovery.GetQuestions()
	if err != nil {
		if errors.Is(err, recovery.ErrNoRecoverySet) {
			writeError(w, http.StatusNotFound, CodeNoRecoverySet, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("failed to load recovery set")
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, model.QuestionsResponse{Questions: questions})
}

// Reset handles POST /recovery/reset
// @Summary      Reset password after answering security questions
// @Description  Verifies the answers first, then re-encrypts the wallet under the new password
// @Tags         recovery
// @Accept       json
// @Produce      json
// @Param        request  body      model.ResetRequest  true  "Answers and passwords"
// @Success      200      {object}  model.MessageResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      403      {object}  model.ErrorResponse
// @Router       /recovery/reset [post]
func (h *RecoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.ResetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Step one: the answers gate the flow
	if !h.recovery.VerifyAnswers(req.Answers) {
		writeError(w, http.StatusForbidden, CodeAnswersMismatch, msgAnswersMismatch)
		return
	}

	// Step two: the vault still needs the old password
	changePassword(w, h.vault, h.log, req.OldPassword, req.NewPassword)
}

// Clear handles DELETE /recovery
// @Summary      Delete recovery set
// @Tags         recovery
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Router       /recovery [delete]
func (h *RecoveryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}

	if err := h.recovery.Clear(); err != nil {
		h.log.Error().Err(err).Msg("failed to clear recovery set")
		writeError(w, http.StatusInsufficientStorage, CodeStorage, "failed to write to storage")
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Success: true, Message: "Recovery set cleared"})
}
