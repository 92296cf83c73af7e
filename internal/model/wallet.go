package model

// WalletSecret represents decrypted wallet data
type WalletSecret struct {
	Mnemonic   string `json:"mnemonic"`
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey,omitempty"`
	CreatedAt  int64  `json:"createdAt"` // epoch milliseconds
}

// EncryptedBlob represents the persisted form of an encrypted secret.
// Iterations and Algorithm travel with the blob so older blobs stay readable
// when the defaults change.
type EncryptedBlob struct {
	EncryptedData string `json:"encryptedData"` // base64
	Salt          string `json:"salt"`          // base64, 16 bytes
	IV            string `json:"iv"`            // base64, 12 bytes
	Iterations    int    `json:"iterations"`
	Algorithm     string `json:"algorithm"`
}

// CWTFile represents legacy .cwt file structure
type CWTFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// CWTWalletData represents decrypted legacy .cwt wallet data
type CWTWalletData struct {
	PrivateKey []byte `json:"privateKey"` // 64 bytes (stored as base64 in JSON)
	CreatedAt  string `json:"createdAt"`  // RFC3339
}
