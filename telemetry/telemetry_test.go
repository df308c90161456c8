package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)

	log.Infof("should not appear: %d", 1)
	log.Warnf("should appear: %d", 2)

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("Infof logged below WarnLevel: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("Warnf did not log: %q", out)
	}
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel).With("device", "switch1")

	log.Infof("state changed")

	if !strings.Contains(buf.String(), "switch1") {
		t.Fatalf("With field not present in output: %q", buf.String())
	}
}
