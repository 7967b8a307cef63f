package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel("info")

	if err := SetLevel("warn"); err != nil {
		t.Fatal(err)
	}
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	Errorf("%s", "100% literal")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] 100% literal") {
		t.Errorf("message without args was reformatted: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{"debug": LevelDebug, " INFO ": LevelInfo, "warning": LevelWarn, "Error": LevelError}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if err := SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
