package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/conorfennell/elephant/internal/domain"
	"github.com/conorfennell/elephant/internal/render"
)

type line struct {
	text string
	err  error
}

// Terminal is a UI that reads responses line by line from an input stream.
// Input is read on a helper goroutine, started by the first prompt, so a
// pending prompt can be abandoned when the context is cancelled.
type Terminal struct {
	in       io.Reader
	out      io.Writer
	renderer *render.Renderer

	start sync.Once
	stop  sync.Once
	lines chan line
	done  chan struct{}
}

// NewTerminal returns a Terminal reading from in and writing to out.
// A nil renderer prints plain text.
func NewTerminal(in io.Reader, out io.Writer, renderer *render.Renderer) *Terminal {
	return &Terminal{
		in:       in,
		out:      out,
		renderer: renderer,
		lines:    make(chan line),
		done:     make(chan struct{}),
	}
}

// read delivers every input line, then the read error (io.EOF at the end of
// input) once, then closes lines. It returns early when the Terminal is
// closed.
func (t *Terminal) read() {
	defer close(t.lines)

	scanner := bufio.NewScanner(t.in)
	for scanner.Scan() {
		select {
		case t.lines <- line{text: scanner.Text()}:
		case <-t.done:
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case t.lines <- line{err: err}:
	case <-t.done:
	}
}

// Close stops the reader goroutine once it is no longer blocked on input.
func (t *Terminal) Close() error {
	t.stop.Do(func() { close(t.done) })
	return nil
}

// ShowQuestion prints the question side of card.
func (t *Terminal) ShowQuestion(card domain.Card) {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, t.renderer.Question(card))
}

// ShowAnswer prints the answer side of card.
func (t *Terminal) ShowAnswer(card domain.Card) {
	fmt.Fprintln(t.out, t.renderer.Answer(card))
}

// Notify prints msg on its own line.
func (t *Terminal) Notify(msg string) {
	fmt.Fprintln(t.out, msg)
}

// Prompt prints prompt and waits for the next input line. It returns
// ErrInterrupted when ctx is done, even if input is already waiting, and
// io.EOF once the input is exhausted.
func (t *Terminal) Prompt(ctx context.Context, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInterrupted
	}
	t.start.Do(func() { go t.read() })

	fmt.Fprintf(t.out, "%s ", prompt)
	select {
	case <-ctx.Done():
		fmt.Fprintln(t.out)
		return "", ErrInterrupted
	case l, ok := <-t.lines:
		if !ok {
			fmt.Fprintln(t.out)
			return "", io.EOF
		}
		if l.err != nil {
			fmt.Fprintln(t.out)
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}
