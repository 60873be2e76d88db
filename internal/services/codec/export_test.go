package codec

import "sealchat/internal/crypto"

// NewWithDecrypt returns a Service whose decryption step is replaced by f.
func NewWithDecrypt(f func(string, crypto.Secret) (string, error)) *Service {
	return &Service{decrypt: f}
}
