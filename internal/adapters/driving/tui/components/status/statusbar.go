// Package status provides the status bar for the chat TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/styles"
)

// State represents what the assistant is doing.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateLoading  State = "loading"
	StateError    State = "error"
)

// Bar displays corpus status and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	documents int
	model     string
	spinner   string
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateThinking:
		return b.styles.Muted.Render(b.spinner + " Searching documents and generating answer...")
	case StateLoading:
		return b.styles.Muted.Render(b.spinner + " Loading bucket...")
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Error.Render("Error")
	}

	parts := []string{fmt.Sprintf("%d documents", b.documents)}
	if b.model != "" {
		parts = append(parts, b.model)
	}
	if b.message != "" {
		parts = append(parts, b.message)
	}
	return b.styles.Muted.Render(strings.Join(parts, " · "))
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets a short note shown next to the counts, or the error text
// in StateError.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetDocuments sets the corpus size.
func (b *Bar) SetDocuments(n int) {
	b.documents = n
}

// Documents returns the corpus size shown.
func (b *Bar) Documents() int {
	return b.documents
}

// SetModel sets the LLM model name.
func (b *Bar) SetModel(model string) {
	b.model = model
}

// SetSpinner sets the spinner frame shown while busy.
func (b *Bar) SetSpinner(frame string) {
	b.spinner = frame
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// Clear returns the bar to the ready state and drops the message.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
}
