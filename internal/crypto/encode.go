package crypto

import (
	"encoding/base64"
	"fmt"

	"github.com/mr-tron/base58"
)

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// EncodeSecret returns the base58 text form of s.
func EncodeSecret(s Secret) string { return base58.Encode(s[:]) }

// DecodeSecret parses the output of EncodeSecret.
func DecodeSecret(text string) (Secret, error) {
	if text == "" {
		return Secret{}, fmt.Errorf("%w: empty", ErrInvalidKeyEncoding)
	}
	raw, err := base58.Decode(text)
	if err != nil {
		return Secret{}, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	if len(raw) != SecretBytes {
		return Secret{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyEncoding, len(raw), SecretBytes)
	}
	var s Secret
	copy(s[:], raw)
	return s, nil
}
