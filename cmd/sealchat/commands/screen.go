package commands

import (
	"context"
	"errors"
	"strings"

	"codeberg.org/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

// pendingLines bounds input typed while an earlier line is still in flight.
const pendingLines = 16

// screen is the full-screen chat view: header, message log, roster pane,
// status line and input field. Widgets are only touched from the cview event
// loop once Run has started.
type screen struct {
	app *cview.Application
	con *console

	layout *cview.Flex
	header *cview.TextView
	log    *cview.List
	users  *cview.List
	status *cview.TextView
	input  *cview.InputField

	lines chan string
}

func newScreen(con *console) *screen {
	s := &screen{
		app:   cview.NewApplication(),
		con:   con,
		lines: make(chan string, pendingLines),
	}

	s.header = cview.NewTextView()
	s.header.SetWrap(false)

	s.log = cview.NewList()
	s.log.ShowSecondaryText(false)
	s.log.SetBorder(true)
	s.log.SetTitle(" messages ")

	s.users = cview.NewList()
	s.users.ShowSecondaryText(false)
	s.users.SetBorder(true)
	s.users.SetTitle(" online ")

	s.status = cview.NewTextView()
	s.status.SetWrap(false)

	s.input = cview.NewInputField()
	s.input.SetLabel("> ")
	s.input.SetPlaceholder("message or /help")
	s.input.SetDoneFunc(s.onDone)

	body := cview.NewFlex()
	body.SetDirection(cview.FlexColumn)
	body.AddItem(s.log, 0, 4, false)
	body.AddItem(s.users, 0, 1, false)

	s.layout = cview.NewFlex()
	s.layout.SetDirection(cview.FlexRow)
	s.layout.AddItem(s.header, 1, 0, false)
	s.layout.AddItem(body, 0, 1, false)
	s.layout.AddItem(s.status, 1, 0, false)
	s.layout.AddItem(s.input, 1, 0, true)

	s.app.SetRoot(s.layout, true)
	s.app.SetFocus(s.input)
	return s
}

// run draws until /quit or ctx ends. Controller updates are redrawn through
// the event loop; input lines are handled one at a time off it.
func (s *screen) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.process(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				s.app.Stop()
				return
			case <-s.con.chat.Updates():
				s.app.QueueUpdateDraw(s.refresh)
			}
		}
	}()

	s.refresh()
	return s.app.Run()
}

// onDone queues the typed line. It runs on the event loop and must not block.
func (s *screen) onDone(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	line := s.input.GetText()
	if strings.TrimSpace(line) == "" {
		return
	}
	select {
	case s.lines <- line:
		s.input.SetText("")
	default:
		s.setStatus("still sending; try again")
	}
}

func (s *screen) process(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-s.lines:
			status, err := s.con.handle(ctx, line)
			if errors.Is(err, errQuit) {
				s.app.Stop()
				return
			}
			s.app.QueueUpdateDraw(func() {
				s.setStatus(status)
				s.refresh()
			})
		}
	}
}

func (s *screen) setStatus(text string) {
	s.status.SetText(cview.Escape(text))
}

// refresh rebuilds the header, log and roster pane from the controller.
func (s *screen) refresh() {
	s.header.SetText(cview.Escape("sealchat | " + s.con.header()))

	s.log.Clear()
	for _, m := range s.con.chat.Messages() {
		s.log.AddItem(cview.NewListItem(cview.Escape(formatMessage(m))))
	}
	if n := s.log.GetItemCount(); n > 0 {
		s.log.SetCurrentItem(n - 1)
	}

	s.users.Clear()
	self := s.con.chat.Self()
	for _, u := range s.con.chat.Users() {
		name := u.String()
		if u == self {
			name += " (you)"
		}
		s.users.AddItem(cview.NewListItem(cview.Escape(name)))
	}
}
