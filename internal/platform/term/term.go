// Package term controls the text terminal that shares the screen with the
// framebuffer: hiding its cursor and clearing it so console text does not
// bleed into the rendered image.
package term

import (
	"io"
	"os"

	"golang.org/x/term"
)

var (
	seqCursorHide = []byte("\x1b[?25l")
	seqCursorShow = []byte("\x1b[?25h")
	seqClear      = []byte("\x1b[2J\x1b[H")
)

// Terminal writes control sequences to an output stream.
// Writes are skipped when the stream is not a terminal.
type Terminal struct {
	w           io.Writer
	interactive bool
	hidden      bool
}

// New wraps f, detecting whether it is a terminal.
func New(f *os.File) *Terminal {
	return &Terminal{w: f, interactive: term.IsTerminal(int(f.Fd()))}
}

// NewWriter wraps an arbitrary writer. interactive forces the terminal check.
func NewWriter(w io.Writer, interactive bool) *Terminal {
	return &Terminal{w: w, interactive: interactive}
}

// Interactive reports whether control sequences are written.
func (t *Terminal) Interactive() bool {
	return t.interactive
}

// HideCursor hides the text cursor.
func (t *Terminal) HideCursor() error {
	if err := t.write(seqCursorHide); err != nil {
		return err
	}
	t.hidden = t.interactive
	return nil
}

// ShowCursor restores the cursor if HideCursor hid it.
func (t *Terminal) ShowCursor() error {
	if !t.hidden {
		return nil
	}
	t.hidden = false
	return t.write(seqCursorShow)
}

// ClearScreen erases the screen and homes the cursor.
func (t *Terminal) ClearScreen() error {
	return t.write(seqClear)
}

// Size returns the terminal size in cells.
func Size(f *os.File) (width, height int, err error) {
	return term.GetSize(int(f.Fd()))
}

func (t *Terminal) write(seq []byte) error {
	if !t.interactive {
		return nil
	}
	_, err := t.w.Write(seq)
	return err
}
