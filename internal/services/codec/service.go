package codec

import (
	"fmt"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// Opener recovers the display text of one message.
type Opener interface {
	Open(msg domain.Message) (string, error)
}

// Service seals and opens chat messages.
type Service struct {
	decrypt func(ciphertext string, s crypto.Secret) (string, error)
}

// New returns a Service backed by the crypto package.
func New() *Service {
	return &Service{decrypt: crypto.Decrypt}
}

// Seal encrypts text with the keyring's secret and attaches its encoding.
func (s *Service) Seal(keys *crypto.Keyring, text string) (domain.OutgoingMessage, error) {
	ct, err := crypto.Encrypt(text, keys.Secret())
	if err != nil {
		return domain.OutgoingMessage{}, fmt.Errorf("seal message: %w", err)
	}
	return domain.OutgoingMessage{Value: ct, Key: keys.Encoded()}, nil
}

// Plain wraps text as a keyless message.
func (s *Service) Plain(text string) domain.OutgoingMessage {
	return domain.OutgoingMessage{Value: text}
}

// Open returns the plaintext of msg. Keyless messages are returned verbatim.
// Errors wrap crypto.ErrInvalidKeyEncoding or crypto.ErrDecryptionFailed.
func (s *Service) Open(msg domain.Message) (string, error) {
	if !msg.Encrypted() {
		return msg.Value, nil
	}
	secret, err := crypto.DecodeSecret(msg.Key)
	if err != nil {
		return "", fmt.Errorf("open message %s: %w", msg.ID, err)
	}
	text, err := s.decrypt(msg.Value, secret)
	if err != nil {
		return "", fmt.Errorf("open message %s: %w", msg.ID, err)
	}
	return text, nil
}

// Render opens every message for display. A message that fails to open is
// returned with Err set and does not affect the others.
func Render(o Opener, msgs []domain.Message) []domain.RenderedMessage {
	out := make([]domain.RenderedMessage, 0, len(msgs))
	for _, m := range msgs {
		rm := domain.RenderedMessage{
			ID:        m.ID,
			User:      m.User,
			Time:      m.Timestamp(),
			Encrypted: m.Encrypted(),
		}
		rm.Text, rm.Err = o.Open(m)
		out = append(out, rm)
	}
	return out
}

var _ Opener = (*Service)(nil)
