package ui

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })
	return &buf
}

func TestDebugfDisabled(t *testing.T) {
	buf := capture(t)
	Debugf(false, "hidden %d\n", 1)
	if buf.Len() != 0 {
		t.Fatalf("disabled debug wrote %q", buf.String())
	}
	Debugf(true, "shown %d\n", 2)
	if got := buf.String(); !strings.Contains(got, "[DEBUG] shown 2") || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("unexpected debug output %q", got)
	}
}

func TestClearScreenTitle(t *testing.T) {
	buf := capture(t)
	ClearScreen("Recalibrating (seed 7)")
	if got := buf.String(); got != "\033[2J\033[1;1HRecalibrating (seed 7)\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
