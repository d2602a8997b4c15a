package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Intro", statusOK, "/tmp/intro.mp3", false)
	if !strings.Contains(line, "[OK]") || !strings.Contains(line, "/tmp/intro.mp3") {
		t.Fatalf("unexpected status line %q", line)
	}
	if strings.Contains(line, ansiGreen) {
		t.Fatalf("uncolorized line must not contain ANSI codes: %q", line)
	}

	colored := renderStatusLine("Intro", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red wrapping, got %q", colored)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}
