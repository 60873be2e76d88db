package relay_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sealchat/internal/domain"
	"sealchat/internal/relay"
)

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct {
		in, path, want string
	}{
		{"192.168.1.10:3000", "", "ws://192.168.1.10:3000/socket"},
		{"  10.0.0.1:3000  ", "/chat", "ws://10.0.0.1:3000/chat"},
		{"http://chat.local:3000", "", "ws://chat.local:3000/socket"},
		{"https://chat.example/", "", "wss://chat.example/socket"},
		{"wss://chat.example/custom", "", "wss://chat.example/custom"},
		{"ws://localhost:8080/socket?room=1", "", "ws://localhost:8080/socket?room=1"},
	}
	for _, tc := range cases {
		got, err := relay.NormalizeEndpoint(domain.Endpoint(tc.in), tc.path)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalizeEndpoint_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://host", "ws://", "ws://%zz"} {
		_, err := relay.NormalizeEndpoint(domain.Endpoint(in), "")
		require.Error(t, err, in)
	}
}
