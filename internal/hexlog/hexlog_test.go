package hexlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfofAndWarnfPrefixLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Infof("board is %dx%d", 11, 11)
	l.Warnf("pattern file missing: %s", "patterns.txt")

	out := buf.String()
	if !strings.Contains(out, "info: board is 11x11") {
		t.Errorf("expected an info-prefixed line, got %q", out)
	}
	if !strings.Contains(out, "warn: pattern file missing: patterns.txt") {
		t.Errorf("expected a warn-prefixed line, got %q", out)
	}
}

func TestFatalErrorWrapsCause(t *testing.T) {
	cause := errSentinel("disk full")
	fe := &FatalError{Msg: "saving stats", Err: cause}

	if got := fe.Error(); got != "saving stats: disk full" {
		t.Errorf("unexpected Error() text: %q", got)
	}
	if fe.Unwrap() != error(cause) {
		t.Errorf("Unwrap should return the wrapped cause")
	}
}

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
