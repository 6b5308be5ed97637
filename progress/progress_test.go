package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	s := Format("Reading peaks", 0.4)
	if !strings.HasPrefix(s, "\rReading peaks") {
		t.Errorf("expected operation at start, got: %q", s)
	}
	if !strings.Contains(s, ": [####------] 40%") {
		t.Errorf("expected 40%% bar, got: %q", s)
	}
	if !strings.Contains(Format("x", 3), "[##########] 100%") {
		t.Errorf("expected fraction to be clamped to 1")
	}
}

func TestShortLoopIsSilent(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "short", 10)
	for i := 0; i < 10; i++ {
		b.Update(i)
	}
	b.Done()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got: %q", buf.String())
	}
}

func TestLongLoop(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "long", 5000)
	for i := 1; i <= 5000; i++ {
		b.Update(i)
	}
	b.Done()
	// redraws at 1000..5000 and once more for Done.
	if n := strings.Count(buf.String(), "\r"); n != 6 {
		t.Errorf("expected: 6 redraws, got: %d", n)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("expected Done to end the line")
	}
}

func TestNilBar(t *testing.T) {
	var b *Bar
	b.Update(1000)
	b.Done()
}
