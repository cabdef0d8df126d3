package log

import (
	"bytes"
	"context"
	"testing"
)

func TestPrintf(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Printf("hello %s %d", "world", 42)
	if got := buf.String(); got != "hello world 42" {
		t.Errorf("Printf output = %q, want %q", got, "hello world 42")
	}
}

func TestVerbosef(t *testing.T) {
	t.Run("suppressed when not verbose", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, false).Verbosef("mkdir %s\n", "/tmp/x")
		if buf.Len() != 0 {
			t.Errorf("Verbosef wrote %q when not verbose", buf.String())
		}
	})

	t.Run("written when verbose", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, true).Verbosef("mkdir %s\n", "/tmp/x")
		if got := buf.String(); got != "mkdir /tmp/x\n" {
			t.Errorf("Verbosef output = %q, want %q", got, "mkdir /tmp/x\n")
		}
	})
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true)
	ctx := WithLogger(context.Background(), l)

	if got := FromContext(ctx); got != l {
		t.Error("FromContext did not return the attached logger")
	}

	noop := FromContext(context.Background())
	noop.Printf("discarded\n")
	noop.Verbosef("discarded\n")
	if buf.Len() != 0 {
		t.Errorf("no-op logger wrote to the attached logger: %q", buf.String())
	}
}
