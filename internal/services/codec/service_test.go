package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/services/codec"
)

func keyring(t *testing.T) *crypto.Keyring {
	t.Helper()
	kr, err := crypto.NewKeyring()
	require.NoError(t, err)
	return kr
}

func TestSealOpen_AcrossClients(t *testing.T) {
	sender := keyring(t)
	out, err := codec.New().Seal(sender, "nos vemos a las 8")
	require.NoError(t, err)
	require.Equal(t, sender.Encoded(), out.Key)
	require.NotContains(t, out.Value, "nos vemos")

	// The receiving client shares no state with the sender; the encoded key
	// travels with the message.
	msg := domain.Message{Value: out.Value, Key: out.Key, User: "Ana", Time: 10, ID: "m1"}
	got, err := codec.New().Open(msg)
	require.NoError(t, err)
	require.Equal(t, "nos vemos a las 8", got)
}

func TestOpen_KeylessPassesThrough(t *testing.T) {
	called := false
	svc := codec.NewWithDecrypt(func(string, crypto.Secret) (string, error) {
		called = true
		return "", nil
	})

	got, err := svc.Open(domain.Message{Value: "Bob joined the chat", Time: 5})
	require.NoError(t, err)
	require.Equal(t, "Bob joined the chat", got)
	require.False(t, called)
}

func TestOpen_BadKey(t *testing.T) {
	svc := codec.New()
	_, err := svc.Open(domain.Message{Value: "xyz", Key: "not*base58"})
	require.ErrorIs(t, err, crypto.ErrInvalidKeyEncoding)
}

func TestOpen_WrongKey(t *testing.T) {
	a, b := keyring(t), keyring(t)
	svc := codec.New()
	out, err := svc.Seal(a, "private")
	require.NoError(t, err)

	_, err = svc.Open(domain.Message{Value: out.Value, Key: b.Encoded()})
	require.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestPlain(t *testing.T) {
	out := codec.New().Plain("hello")
	require.Equal(t, domain.OutgoingMessage{Value: "hello"}, out)
}

func TestSeal_Empty(t *testing.T) {
	_, err := codec.New().Seal(keyring(t), "")
	require.ErrorIs(t, err, crypto.ErrEmptyPlaintext)
}

func TestRender_FailureIsContained(t *testing.T) {
	kr := keyring(t)
	svc := codec.New()
	good, err := svc.Seal(kr, "fine")
	require.NoError(t, err)

	msgs := []domain.Message{
		{ID: "1", Value: good.Value, Key: good.Key, User: "Ana", Time: 1},
		{ID: "2", Value: "garbage", Key: good.Key, User: "Bob", Time: 2},
		{ID: "3", Value: "plain", Time: 3},
		{ID: "4", Value: good.Value, Key: "***", Time: 4},
	}
	out := codec.Render(svc, msgs)
	require.Len(t, out, 4)

	require.Equal(t, "fine", out[0].Text)
	require.True(t, out[0].Encrypted)
	require.False(t, out[0].Undecipherable())

	require.True(t, out[1].Undecipherable())
	require.ErrorIs(t, out[1].Err, crypto.ErrDecryptionFailed)

	require.Equal(t, "plain", out[2].Text)
	require.False(t, out[2].Encrypted)

	require.ErrorIs(t, out[3].Err, crypto.ErrInvalidKeyEncoding)
	require.Equal(t, domain.Username("Bob"), out[1].User)
}
