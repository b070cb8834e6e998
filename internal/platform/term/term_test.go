package term

import (
	"bytes"
	"testing"
)

func TestTerminalSequences(t *testing.T) {
	var buf bytes.Buffer
	tm := NewWriter(&buf, true)

	tm.HideCursor()
	tm.ClearScreen()
	tm.ShowCursor()

	expected := "\x1b[?25l\x1b[2J\x1b[H\x1b[?25h"
	if got := buf.String(); got != expected {
		t.Errorf("output = %q, expected %q", got, expected)
	}
}

func TestShowCursorOnlyAfterHide(t *testing.T) {
	var buf bytes.Buffer
	tm := NewWriter(&buf, true)

	tm.ShowCursor()
	if buf.Len() != 0 {
		t.Errorf("ShowCursor() without HideCursor() wrote %q", buf.String())
	}

	tm.HideCursor()
	tm.ShowCursor()
	tm.ShowCursor()
	if got := buf.String(); got != "\x1b[?25l\x1b[?25h" {
		t.Errorf("output = %q, expected a single hide/show pair", got)
	}
}

func TestNonInteractiveWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	tm := NewWriter(&buf, false)

	tm.HideCursor()
	tm.ClearScreen()
	tm.ShowCursor()

	if tm.Interactive() {
		t.Error("Interactive() should be false")
	}
	if buf.Len() != 0 {
		t.Errorf("non-interactive terminal wrote %q", buf.String())
	}
}
