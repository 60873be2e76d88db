package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/services/chat"
)

const helpText = "/name <new>  /plain <text>  /users  /connect <host:port>  /forget  /quit"

// console turns input lines into controller calls and controller state into
// display text. The screen owns the terminal; console never draws.
type console struct {
	chat    domain.ChatService
	timeout time.Duration
}

func newConsole(c domain.ChatService, timeout time.Duration) *console {
	return &console{chat: c, timeout: timeout}
}

// handle executes one input line and returns the status line to show.
// Only /quit returns an error.
func (c *console) handle(ctx context.Context, line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if !strings.HasPrefix(line, "/") {
		return describe(c.chat.Send(ctx, line)), nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit":
		return "", errQuit
	case "/name":
		if arg == "" {
			return "usage: /name <new>", nil
		}
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return describe(c.chat.Rename(rctx, domain.Username(arg))), nil
	case "/plain":
		return describe(c.chat.SendPlain(ctx, arg)), nil
	case "/users":
		users := c.chat.Users()
		names := make([]string, 0, len(users))
		for _, u := range users {
			names = append(names, u.String())
		}
		return fmt.Sprintf("%d online: %s", len(names), strings.Join(names, ", ")), nil
	case "/connect":
		if arg == "" {
			return "usage: /connect <host:port>", nil
		}
		dctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return describe(c.chat.Connect(dctx, domain.Endpoint(arg))), nil
	case "/forget":
		if err := c.chat.Forget(); err != nil {
			return describe(err), nil
		}
		return "remembered endpoint cleared", nil
	case "/help":
		return helpText, nil
	default:
		return fmt.Sprintf("unknown command %s; %s", cmd, helpText), nil
	}
}

// header is the one-line session summary above the log.
func (c *console) header() string {
	ep, hasEndpoint := c.chat.Endpoint()
	switch {
	case c.chat.Connected():
		return fmt.Sprintf("%s | you are %s | %d online", ep, c.chat.Self(), len(c.chat.Users()))
	case hasEndpoint:
		return fmt.Sprintf("not connected (last: %s)", ep)
	default:
		return "not connected"
	}
}

// formatMessage renders one log line.
func formatMessage(m domain.RenderedMessage) string {
	text := m.Text
	if m.Undecipherable() {
		text = "<undecipherable message>"
	}
	user := m.User.String()
	if user == "" {
		user = "*"
	}
	return fmt.Sprintf("%s %s: %s", m.Time.Format("15:04"), user, text)
}

// describe turns a controller error into a user-facing line.
func describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, chat.ErrRenameRejected):
		return "that name is not available"
	case errors.Is(err, chat.ErrNotReady):
		return "still joining; try again once the user list appears"
	case errors.Is(err, chat.ErrNotConnected):
		return "not connected; message dropped (use /connect <host:port>)"
	case errors.Is(err, chat.ErrRateLimited):
		return "sending too fast; message dropped"
	case errors.Is(err, chat.ErrEndpointUnreachable):
		return "could not reach the server: " + err.Error()
	case errors.Is(err, crypto.ErrEmptyPlaintext):
		return "nothing to send"
	case errors.Is(err, context.DeadlineExceeded):
		return "the server did not answer in time"
	default:
		return err.Error()
	}
}
