package model

// RecoveryAnswer is one answer submitted for a security question.
type RecoveryAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// HashedAnswer is the persisted form of a RecoveryAnswer
type HashedAnswer struct {
	QuestionID   string `json:"questionId"`
	HashedAnswer string `json:"hashedAnswer"` // hex SHA-256 of the normalized answer
}

// Question is a security question from the catalog
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SecureEntry is the persisted form of a Generic Secure Storage item
type SecureEntry struct {
	Ciphertext string `json:"ciphertext"` // base64
	IV         string `json:"iv"`         // base64
	Salt       string `json:"salt"`       // base64
}
