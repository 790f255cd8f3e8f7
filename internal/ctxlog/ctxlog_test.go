package ctxlog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Errorf("FromContext without logger = %p, want slog.Default()", got)
	}

	l := New(io.Discard, false)
	ctx := WithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Errorf("FromContext = %p, want %p", got, l)
	}
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written without verbose: %q", buf.String())
	}

	New(&buf, true).Debug("shown", "k", "v")
	if !strings.Contains(buf.String(), "msg=shown") || !strings.Contains(buf.String(), "k=v") {
		t.Errorf("verbose logger output = %q", buf.String())
	}
}
