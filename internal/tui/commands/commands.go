// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/freetogether/internal/app"
	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/llm"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// EventLoadedMsg is sent when the event and its responses are loaded.
type EventLoadedMsg struct {
	View *app.EventView
}

// SubmittedMsg is sent when a response was saved.
type SubmittedMsg struct {
	Response *event.Response
}

// SubmitFailedMsg is sent when saving a response failed. The selection is
// kept so the user can retry.
type SubmitFailedMsg struct {
	Err error
}

// InvitedMsg is sent after new invitees were added.
type InvitedMsg struct {
	Added []string
}

// InterpretedMsg is sent when a free-text description was turned into slots.
type InterpretedMsg struct {
	Text   string
	Result *llm.InterpretResult
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// withTimeout bounds storage calls; zero means no limit.
func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// LoadEvent loads the event as seen by viewer.
func LoadEvent(svc *app.Service, id, viewer string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		v, err := svc.Load(ctx, id, viewer)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading event: %w", err)}
		}
		return EventLoadedMsg{View: v}
	}
}

// Submit saves the viewer's response.
func Submit(svc *app.Service, id, email, name string, available, maybe []slot.Key, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		r, err := svc.Submit(ctx, id, email, name, available, maybe)
		if err != nil {
			return SubmitFailedMsg{Err: err}
		}
		return SubmittedMsg{Response: r}
	}
}

// Invite adds invitees to the event.
func Invite(svc *app.Service, id, actor string, emails []string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		added, err := svc.Invite(ctx, id, actor, emails)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("inviting: %w", err)}
		}
		return InvitedMsg{Added: added}
	}
}

// Interpret runs the LLM interpreter on a description of free time.
func Interpret(in *llm.Interpreter, req llm.InterpretRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := in.Interpret(context.Background(), req)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("interpreting %q: %w", req.Text, err)}
		}
		return InterpretedMsg{Text: req.Text, Result: res}
	}
}

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// Copy puts text on the system clipboard.
func Copy(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what}
	}
}
