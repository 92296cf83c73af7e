package common

import (
	"bytes"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StripBOM skips a leading UTF-8 BOM if present
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// MaskAddress shortens a wallet address for logs
// Example: MaskAddress("AAAABBBBCCCCY5HFKQ") = "AAAA…HFKQ"
func MaskAddress(address string) string {
	if utf8.RuneCountInString(address) <= 8 {
		return address
	}

	runes := []rune(address)
	return string(runes[:4]) + "…" + string(runes[len(runes)-4:])
}
