package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogDisabledByDefault(t *testing.T) {
	Disable()
	Log("test", "nothing %d", 1)
	if Enabled() {
		t.Error("expected logging disabled")
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Disable()

	Log("sink", "sent %d frames", 3)
	line := buf.String()
	if !strings.Contains(line, "sink") || !strings.Contains(line, "sent 3 frames") {
		t.Errorf("unexpected log line %q", line)
	}
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Disable()

	for i := 0; i < 9; i++ {
		LogEvery(3, "poll", "tick")
	}
	if got := strings.Count(buf.String(), "tick"); got != 3 {
		t.Errorf("expected 3 lines, got %d:\n%s", got, buf.String())
	}
}

func TestEnableWritesFile(t *testing.T) {
	Disable()
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Log("port", "opened %q", "IAC")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "Debug logging started") || !strings.Contains(string(data), `opened "IAC"`) {
		t.Errorf("unexpected log contents:\n%s", data)
	}
}
