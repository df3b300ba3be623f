package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestWithComponentPrefixesLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "debug").WithComponent("scheduler")

	log.Info("Dispatch pass completed", "sent", 2)

	line := buf.String()
	if !strings.Contains(line, "[scheduler]") {
		t.Fatalf("line missing component prefix: %q", line)
	}
	if !strings.Contains(line, "sent=2") {
		t.Fatalf("line missing key=value pair: %q", line)
	}
}

func TestWithComponentDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithOutput(&buf, "debug")
	_ = parent.WithComponent("http")

	parent.Info("plain line")

	if strings.Contains(buf.String(), "[http]") {
		t.Fatalf("parent logger picked up child component: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "warn")

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")
	log.Error("also visible", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("below-level lines leaked: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "error=boom") {
		t.Fatalf("expected warn/error lines, got: %q", out)
	}
}
