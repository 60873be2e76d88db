package crypto

import (
	"crypto/rand"
	"crypto/subtle"
)

// SecretBytes is the size of a session secret.
const SecretBytes = 16

// Secret is the symmetric key material of one client session.
type Secret [SecretBytes]byte

// NewSecret returns a fresh random secret.
func NewSecret() (Secret, error) {
	var s Secret
	if _, err := rand.Read(s[:]); err != nil {
		return Secret{}, err
	}
	return s, nil
}

// Equal reports whether s and o hold the same bytes, in constant time.
func (s Secret) Equal(o Secret) bool {
	return subtle.ConstantTimeCompare(s[:], o[:]) == 1
}

// String keeps secrets out of logs and fmt output.
func (s Secret) String() string { return "crypto.Secret(redacted)" }

// Keyring owns the one secret a client uses for every message it sends
// during a process lifetime. It is created once at start-up and passed to
// whoever needs it; the secret is never rotated or persisted.
type Keyring struct {
	secret  Secret
	encoded string
}

// NewKeyring generates the session secret.
func NewKeyring() (*Keyring, error) {
	s, err := NewSecret()
	if err != nil {
		return nil, err
	}
	return NewKeyringFromSecret(s), nil
}

// NewKeyringFromSecret wraps an existing secret.
func NewKeyringFromSecret(s Secret) *Keyring {
	return &Keyring{secret: s, encoded: EncodeSecret(s)}
}

// Secret returns the session secret.
func (k *Keyring) Secret() Secret { return k.secret }

// Encoded returns the transport form of the session secret.
func (k *Keyring) Encoded() string { return k.encoded }
