package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/services/chat"
)

// stubChat records what the console asks of the controller.
type stubChat struct {
	connected bool
	endpoint  domain.Endpoint
	self      domain.Username
	users     []domain.Username
	messages  []domain.RenderedMessage
	updates   chan struct{}

	sent      []string
	plain     []string
	renamed   []domain.Username
	connects  []domain.Endpoint
	forgets   int
	renameErr error
	sendErr   error
}

func newStubChat() *stubChat { return &stubChat{updates: make(chan struct{}, 1)} }

func (s *stubChat) Connect(_ context.Context, ep domain.Endpoint) error {
	s.connects = append(s.connects, ep)
	s.connected, s.endpoint = true, ep
	return nil
}
func (s *stubChat) Resume(context.Context) (bool, error) { return false, nil }
func (s *stubChat) Disconnect() error { s.connected = false; return nil }
func (s *stubChat) Forget() error { s.forgets++; return nil }
func (s *stubChat) Send(_ context.Context, text string) error {
	s.sent = append(s.sent, text)
	return s.sendErr
}
func (s *stubChat) SendPlain(_ context.Context, text string) error {
	s.plain = append(s.plain, text)
	return s.sendErr
}
func (s *stubChat) Rename(ctx context.Context, name domain.Username) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("rename without deadline")
	}
	s.renamed = append(s.renamed, name)
	return s.renameErr
}
func (s *stubChat) Connected() bool { return s.connected }
func (s *stubChat) Endpoint() (domain.Endpoint, bool) { return s.endpoint, s.endpoint != "" }
func (s *stubChat) Self() domain.Username { return s.self }
func (s *stubChat) Users() []domain.Username { return s.users }
func (s *stubChat) Messages() []domain.RenderedMessage { return s.messages }
func (s *stubChat) Updates() <-chan struct{} { return s.updates }

var _ domain.ChatService = (*stubChat)(nil)

func handleAll(t *testing.T, con *console, lines ...string) []string {
	t.Helper()
	var out []string
	for _, line := range lines {
		status, err := con.handle(context.Background(), line)
		require.NoError(t, err)
		out = append(out, status)
	}
	return out
}

func TestConsole_Commands(t *testing.T) {
	c := newStubChat()
	c.users = []domain.Username{"Ana", "Bob"}
	con := newConsole(c, time.Second)

	status := handleAll(t, con,
		"/connect 192.168.1.10:3000",
		"hola",
		"",
		"/plain visible",
		"/name Carla",
		"/users",
		"/forget",
	)

	require.Equal(t, []domain.Endpoint{"192.168.1.10:3000"}, c.connects)
	require.Equal(t, []string{"hola"}, c.sent)
	require.Equal(t, []string{"visible"}, c.plain)
	require.Equal(t, []domain.Username{"Carla"}, c.renamed)
	require.Equal(t, 1, c.forgets)
	require.Equal(t, "2 online: Ana, Bob", status[5])
	require.Equal(t, "remembered endpoint cleared", status[6])

	_, err := con.handle(context.Background(), "/quit")
	require.ErrorIs(t, err, errQuit)
}

func TestConsole_ReportsFailures(t *testing.T) {
	c := newStubChat()
	c.renameErr = fmt.Errorf("%w: Bob", chat.ErrRenameRejected)
	c.sendErr = chat.ErrNotConnected
	con := newConsole(c, time.Second)

	status := handleAll(t, con, "/name Bob", "hello", "/bogus", "/name", "/connect")
	require.Equal(t, "that name is not available", status[0])
	require.Contains(t, status[1], "not connected; message dropped")
	require.Contains(t, status[2], "unknown command /bogus")
	require.Equal(t, "usage: /name <new>", status[3])
	require.Equal(t, "usage: /connect <host:port>", status[4])
}

func TestConsole_RenameBeforeJoin(t *testing.T) {
	c := newStubChat()
	c.renameErr = chat.ErrNotReady
	con := newConsole(c, time.Second)

	status := handleAll(t, con, "/name Carla")
	require.Equal(t, "still joining; try again once the user list appears", status[0])
}

func TestScreen_Refresh(t *testing.T) {
	c := newStubChat()
	c.connected, c.endpoint, c.self = true, "chat.local:3000", "Ana"
	c.users = []domain.Username{"Ana", "Bob"}
	c.messages = []domain.RenderedMessage{
		{User: "Ana", Text: "hola", Time: time.Date(2024, 1, 1, 9, 30, 0, 0, time.Local)},
		{User: "Bob", Err: crypto.ErrDecryptionFailed, Encrypted: true, Time: time.Date(2024, 1, 1, 9, 31, 0, 0, time.Local)},
	}

	s := newScreen(newConsole(c, time.Second))
	s.refresh()

	require.Contains(t, s.header.GetText(true), "chat.local:3000 | you are Ana | 2 online")
	require.Equal(t, 2, s.log.GetItemCount())
	require.Equal(t, "09:30 Ana: hola", s.log.GetItem(0).GetMainText())
	require.Equal(t, "09:31 Bob: <undecipherable message>", s.log.GetItem(1).GetMainText())
	require.Equal(t, 2, s.users.GetItemCount())
	require.Equal(t, "Ana (you)", s.users.GetItem(0).GetMainText())

	// A later update replaces the panes rather than appending to them.
	c.users = []domain.Username{"Ana"}
	c.messages = c.messages[:1]
	s.refresh()
	require.Equal(t, 1, s.log.GetItemCount())
	require.Equal(t, 1, s.users.GetItemCount())
}

func TestScreen_QueuesInput(t *testing.T) {
	s := newScreen(newConsole(newStubChat(), time.Second))

	s.input.SetText("hola")
	s.onDone(tcell.KeyEnter)
	require.Empty(t, s.input.GetText())
	require.Equal(t, "hola", <-s.lines)

	s.input.SetText("   ")
	s.onDone(tcell.KeyEnter)
	s.input.SetText("draft")
	s.onDone(tcell.KeyEscape)
	require.Empty(t, s.lines)
	require.Equal(t, "draft", s.input.GetText())
}

func TestDescribe(t *testing.T) {
	require.Empty(t, describe(nil))
	require.Equal(t, "sending too fast; message dropped", describe(chat.ErrRateLimited))
	require.Equal(t, "nothing to send", describe(fmt.Errorf("seal: %w", crypto.ErrEmptyPlaintext)))
	require.Contains(t, describe(fmt.Errorf("%w: x", chat.ErrEndpointUnreachable)), "could not reach")
	require.Contains(t, describe(chat.ErrNotReady), "still joining")
}

func TestSealOpenCommands(t *testing.T) {
	var out bytes.Buffer
	seal := sealCmd()
	seal.SetOut(&out)
	seal.SetArgs([]string{"secret plans"})
	require.NoError(t, seal.Execute())

	var payload domain.OutgoingMessage
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	require.NotEmpty(t, payload.Key)

	out.Reset()
	open := openCmd()
	open.SetOut(&out)
	open.SetArgs([]string{"--key", payload.Key, payload.Value})
	require.NoError(t, open.Execute())
	require.Equal(t, "secret plans\n", out.String())
}
