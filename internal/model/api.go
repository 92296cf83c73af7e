package model

// SetupRequest represents request for POST /vault/setup
type SetupRequest struct {
	Password string `json:"password"`
	Mnemonic string `json:"mnemonic,omitempty"` // restore from an existing phrase when set
}

// SetupResponse represents response for POST /vault/setup
type SetupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
	QR      string `json:"QR,omitempty"` // base64 PNG
}

// StatusResponse represents response for GET /vault/status
type StatusResponse struct {
	WalletExists      bool `json:"walletExists"`
	RecoverySetExists bool `json:"recoverySetExists"`
}

// PasswordRequest represents request for POST /vault/verify
type PasswordRequest struct {
	Password string `json:"password"`
}

// VerifyResponse represents response for verification endpoints
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// ChangePasswordRequest represents request for POST /vault/password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// AnswersRequest represents request for POST /recovery/answers and /recovery/verify
type AnswersRequest struct {
	Answers []RecoveryAnswer `json:"answers"`
}

// ResetRequest represents request for POST /recovery/reset
type ResetRequest struct {
	Answers     []RecoveryAnswer `json:"answers"`
	OldPassword string           `json:"oldPassword"`
	NewPassword string           `json:"newPassword"`
}

// QuestionsResponse represents response for question listing endpoints
type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

// ActiveAccountRequest represents request for PUT /session/account
type ActiveAccountRequest struct {
	Address string `json:"address"`
}

// ActiveAccount is the active wallet-address binding kept in secure storage
type ActiveAccount struct {
	Address     string `json:"address"`
	ConnectedAt int64  `json:"connectedAt"` // epoch milliseconds
}

// MessageResponse is a generic success body
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response. Code is one of the
// handler.Code* constants; Error is a generic message safe to show users.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
