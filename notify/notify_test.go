package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"torc/telemetry"
)

func TestLogNotifierWritesBody(t *testing.T) {
	var buf bytes.Buffer
	log := telemetry.New(&buf, zerolog.InfoLevel)
	n := NewLogNotifier(log)

	n.Notify(Notification{Title: "Torc", Body: "door opened"})

	if !strings.Contains(buf.String(), "door opened") {
		t.Fatalf("log output missing body: %q", buf.String())
	}
}

func TestLogNotifierDefaultsUnknownBody(t *testing.T) {
	var buf bytes.Buffer
	log := telemetry.New(&buf, zerolog.InfoLevel)
	n := NewLogNotifier(log)

	n.Notify(Notification{})

	if !strings.Contains(buf.String(), "Unknown") {
		t.Fatalf("expected Unknown body fallback, got %q", buf.String())
	}
}

func TestNewByRegisteredTag(t *testing.T) {
	n, err := New("log", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := n.(*LogNotifier); !ok {
		t.Fatalf("New(\"log\", ...) returned %T, want *LogNotifier", n)
	}
}

func TestNewUnknownTagErrors(t *testing.T) {
	if _, err := New("carrier-pigeon", nil); err == nil {
		t.Fatal("expected error for unregistered notifier type")
	}
}
