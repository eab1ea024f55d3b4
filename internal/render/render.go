// Package render formats cards for the terminal.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/conorfennell/elephant/internal/domain"
)

// Box modes accepted by New.
const (
	BoxAuto   = "auto"
	BoxAlways = "always"
	BoxNever  = "never"
)

var (
	frame = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)
	label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#10B981"))
)

// Renderer turns cards into text, optionally boxed.
type Renderer struct {
	boxed bool
}

// New returns a Renderer for the given box mode. In auto mode cards are
// boxed only when f is a terminal.
func New(mode string, f *os.File) *Renderer {
	switch mode {
	case BoxAlways:
		return &Renderer{boxed: true}
	case BoxNever:
		return &Renderer{boxed: false}
	default:
		return &Renderer{boxed: f != nil && term.IsTerminal(int(f.Fd()))}
	}
}

// Line formats a card as "#<id>: <question> --> <answer>".
func Line(card domain.Card) string {
	return fmt.Sprintf("#%d: %s --> %s", card.ID, card.Question, card.Answer)
}

// Question renders the question side of a card.
func (r *Renderer) Question(card domain.Card) string {
	return r.side("QUESTION", card.Question)
}

// Answer renders the answer side of a card.
func (r *Renderer) Answer(card domain.Card) string {
	return r.side("ANSWER", card.Answer)
}

func (r *Renderer) side(title, body string) string {
	if r == nil || !r.boxed {
		return fmt.Sprintf("%s : %s", title, body)
	}
	return frame.Render(label.Render(title) + "\n" + strings.TrimRight(body, "\n"))
}
