package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestErrorWritesJSONLineWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Error("llm.call", map[string]any{
		"feature": "transform",
		"err":     errors.New("boom"),
	})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log json: %v (%s)", err, line)
	}
	if payload["msg"] != "llm.call" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "ERROR" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["err"] != "boom" {
		t.Fatalf("expected error to be stringified, got %v", payload["err"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}
