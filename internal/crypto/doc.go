// Package crypto holds the message confidentiality primitives used by sealchat.
//
// Contents
//
//   - Session secret generation and ownership (NewSecret, Keyring)
//   - Reversible text encoding of a secret for transport (EncodeSecret,
//     DecodeSecret). The encoding is not a security property.
//   - Authenticated symmetric encryption of message text (Encrypt, Decrypt)
//   - Best-effort wiping of derived keys and the secret (Wipe, Keyring.Destroy)
//
// # Format
//
// Encrypt derives a fresh XChaCha20-Poly1305 key for every message with
// HKDF-SHA256 over the session secret and a random salt, and returns
//
//	base64( version || salt[16] || nonce[24] || sealed )
//
// so Decrypt needs nothing beyond the ciphertext and the secret.
package crypto
