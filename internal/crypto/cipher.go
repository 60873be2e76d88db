package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	formatV1   = byte(1)
	SaltBytes  = 16
	NonceBytes = chacha20poly1305.NonceSizeX
	KeyBytes   = chacha20poly1305.KeySize

	headerBytes = 1 + SaltBytes + NonceBytes
)

var hkdfInfo = []byte("sealchat message v1")

// Encrypt seals plaintext under s and returns the self-contained text form.
func Encrypt(plaintext string, s Secret) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPlaintext
	}

	buf := make([]byte, headerBytes, headerBytes+len(plaintext)+chacha20poly1305.Overhead)
	buf[0] = formatV1
	salt := buf[1 : 1+SaltBytes]
	nonce := buf[1+SaltBytes : headerBytes]
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	key, err := messageKey(s, salt)
	if err != nil {
		return "", err
	}
	defer Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}
	// The header is bound as associated data so salt and version cannot be
	// swapped independently of the sealed body.
	out := aead.Seal(buf, nonce, []byte(plaintext), buf[:headerBytes])
	return B64(out), nil
}

// Decrypt opens a ciphertext produced by Encrypt with the same secret.
// Every failure is reported as ErrDecryptionFailed.
func Decrypt(ciphertext string, s Secret) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	if len(raw) < headerBytes+chacha20poly1305.Overhead {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}
	if raw[0] != formatV1 {
		return "", fmt.Errorf("%w: unknown format %d", ErrDecryptionFailed, raw[0])
	}
	salt := raw[1 : 1+SaltBytes]
	nonce := raw[1+SaltBytes : headerBytes]

	key, err := messageKey(s, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	defer Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	pt, err := aead.Open(nil, nonce, raw[headerBytes:], raw[:headerBytes])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(pt), nil
}

// messageKey derives the per-message AEAD key from the session secret.
func messageKey(s Secret, salt []byte) ([]byte, error) {
	key := make([]byte, KeyBytes)
	r := hkdf.New(sha256.New, s[:], salt, hkdfInfo)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
