package crypto

import "errors"

var (
	// ErrInvalidKeyEncoding is returned when an encoded secret is malformed.
	ErrInvalidKeyEncoding = errors.New("invalid key encoding")
	// ErrDecryptionFailed is returned when a ciphertext does not open under
	// the given secret, including corruption and unknown formats.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrEmptyPlaintext is returned when asked to encrypt nothing.
	ErrEmptyPlaintext = errors.New("empty plaintext")
)
